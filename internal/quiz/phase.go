package quiz

// Phase is the position of a session in the answer flow.
type Phase int

const (
	PhaseUnanswered Phase = iota
	PhaseSelected
	PhaseRevealed
)

var phaseNames = [...]string{
	PhaseUnanswered: "unanswered",
	PhaseSelected:   "selected",
	PhaseRevealed:   "revealed",
}

// progressByPhase is what the progress bar shows in each phase.
var progressByPhase = [...]int{
	PhaseUnanswered: 0,
	PhaseSelected:   75,
	PhaseRevealed:   100,
}

func (p Phase) String() string {
	if p < PhaseUnanswered || p > PhaseRevealed {
		return "unknown"
	}
	return phaseNames[p]
}

// Progress projects the phase to a display percentage.
func (p Phase) Progress() int {
	if p < PhaseUnanswered || p > PhaseRevealed {
		return 0
	}
	return progressByPhase[p]
}
