// Package assessment evaluates the CGT treatment of every active scenario in
// a configuration. Each scenario is assessed on its own; nothing is totalled
// across scenarios.
package assessment

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/cgt-calculator/internal/cgt"
	"github.com/iwvelando/cgt-calculator/internal/config"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Assessment holds the outcome of one scenario. Err is set instead of Result
// when the engine rejected the disposal.
type Assessment struct {
	Name   string
	Input  cgt.DisposalInput
	Result cgt.DisposalResult
	Err    error
}

// Failed reports whether the scenario could not be evaluated.
func (a Assessment) Failed() bool {
	return a.Err != nil
}

// Assess evaluates all active scenarios of conf, which must already have had
// its dates parsed. Results keep config order. A scenario rejected by the
// engine is reported in its own Assessment; malformed scenarios abort the
// whole run.
func Assess(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Assessment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var scenarios []config.Scenario
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "assessment.Assess"),
			)
			continue
		}
		scenarios = append(scenarios, scenario)
	}

	results := make([]Assessment, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.DefaultBatchConcurrency)

	for i, scenario := range scenarios {
		i, scenario := i, scenario
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			input, err := scenario.Input()
			if err != nil {
				return err
			}

			results[i] = evaluate(logger, scenario.Name, input)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assess scenarios: %w", err)
	}
	return results, nil
}

// AssessOne evaluates a single disposal outside of any configuration.
func AssessOne(logger *zap.Logger, name string, input cgt.DisposalInput) Assessment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return evaluate(logger, name, input)
}

func evaluate(logger *zap.Logger, name string, input cgt.DisposalInput) Assessment {
	assessment := Assessment{Name: name, Input: input}

	result, err := cgt.Calculate(input)
	if err != nil {
		var validationErr *cgt.ValidationError
		if errors.As(err, &validationErr) {
			logger.Warn("disposal rejected",
				zap.String("op", "assessment.evaluate"),
				zap.String("scenario", name),
				zap.Stringer("kind", validationErr.Kind),
				zap.Error(err),
			)
		}
		assessment.Err = err
		return assessment
	}

	logger.Debug("disposal assessed",
		zap.String("op", "assessment.evaluate"),
		zap.String("scenario", name),
		zap.Int("heldDays", result.HeldDays),
		zap.Stringer("outcome", result.Outcome),
		zap.Stringer("grossProfit", result.GrossProfit),
		zap.Stringer("taxableIncome", result.TaxableIncome),
	)

	assessment.Result = result
	return assessment
}
