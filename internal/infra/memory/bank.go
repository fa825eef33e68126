package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"daily-quiz-service/internal/domain"
)

// Bank is the on-disk question bank format.
type Bank struct {
	Questions []domain.Question `yaml:"questions"`
}

// LoadBankFile reads a YAML question bank and validates every question.
func LoadBankFile(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBank(data)
}

// ParseBank decodes a YAML question bank.
func ParseBank(data []byte) ([]domain.Question, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(bank.Questions) == 0 {
		return nil, domain.ErrQuestionNotFound
	}
	seen := make(map[string]struct{}, len(bank.Questions))
	for i, q := range bank.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: %w: missing id", i, domain.ErrInvalidQuestion)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("question %d: %w: duplicate id %q", i, domain.ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
	}
	return bank.Questions, nil
}

// DefaultQuestions is used when no bank file is configured.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:           "daily-1",
			Prompt:       "In chess, what is the special move where a king and rook move simultaneously?",
			Options:      []string{"En passant", "Castling", "Promotion", "Zugzwang"},
			CorrectIndex: 1,
			Explanation:  "Castling is a special chess move involving the king and either rook, helping to safeguard the king while developing the rook.",
		},
	}
}
