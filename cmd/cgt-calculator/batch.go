package main

import (
	"fmt"

	"github.com/iwvelando/cgt-calculator/internal/assessment"
	"github.com/iwvelando/cgt-calculator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errScenariosFailed reports how many scenarios the engine rejected.
type errScenariosFailed struct {
	failed int
	total  int
}

func (e errScenariosFailed) Error() string {
	return fmt.Sprintf("%d of %d scenarios failed", e.failed, e.total)
}

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Assess every active scenario in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}

			results, err := assessment.Assess(cmd.Context(), a.logger, *a.conf)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				a.logger.Warn("no active scenarios to assess",
					zap.String("op", "main.batch"),
				)
			}

			if err := output.Write(a.out, format, results); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			failed := 0
			for _, result := range results {
				if result.Failed() {
					failed++
				}
			}
			a.logger.Info("batch complete",
				zap.String("op", "main.batch"),
				zap.Int("scenarios", len(results)),
				zap.Int("failed", failed),
			)
			if failed > 0 {
				return errScenariosFailed{failed: failed, total: len(results)}
			}
			return nil
		},
	}
}
