package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"daily-quiz-service/internal/config"
	"daily-quiz-service/internal/infra/memory"
	"daily-quiz-service/internal/ui/play"
)

// NewPlayCmd runs the daily quiz offline in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the daily quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if errors.Is(err, os.ErrNotExist) {
				cfg = config.Default()
			} else if err != nil {
				return err
			}
			// the alt screen owns stdout, so warnings are discarded
			loader, err := bankLoader(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if err != nil {
				return err
			}
			questions := memory.NewQuestionRepository(loader, config.DurationOr(cfg.Quiz.CacheTTL, config.DefaultCacheTTL))
			model, err := play.NewModel(cmd.Context(), questions, playOptions(cfg, noColor))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func playOptions(cfg config.Config, noColor bool) play.Options {
	return play.Options{
		PeriodSeconds: cfg.PeriodSeconds(),
		TickInterval:  cfg.TickInterval(),
		Rewards:       cfg.Rewards(),
		NoColor:       noColor,
	}
}
