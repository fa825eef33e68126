package cli

import (
	"fmt"

	"daily-quiz-service/internal/config"
	"daily-quiz-service/internal/infra/memory"
	"daily-quiz-service/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the YAML question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the question bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if bankPath == "" {
				bankPath = cfg.Quiz.Bank
			}
			questions, err := memory.LoadBankFile(bankPath)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}

			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			n, err := postgres.NewSeeder(db).Seed(cmd.Context(), questions)
			if err != nil {
				return err
			}
			newLogger(cfg, nil).Info("question bank seeded", "questions", n, "bank", bankPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "", "question bank YAML (defaults to quiz.bank)")
	return cmd
}
