package main

import (
	"fmt"

	"github.com/iwvelando/cgt-calculator/internal/assessment"
	"github.com/iwvelando/cgt-calculator/internal/cgt"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/iwvelando/cgt-calculator/pkg/mathutil"
	"github.com/iwvelando/cgt-calculator/pkg/output"
	"github.com/iwvelando/cgt-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type calculateOptions struct {
	buyPrice  string
	buyDate   string
	sellPrice string
	sellDate  string
}

func (a *app) calculateCmd() *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Assess a single disposal",
		Long: `Assess a single disposal. Any value not given on the command line is taken
from the configuration defaults; an unset sell date means today.`,
		Example: `  cgt-calculator calculate --buy-price 1000 --buy-date 2023-01-01 --sell-price 2500 --sell-date 2024-01-02`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalculate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.buyPrice, "buy-price", "", "purchase price in dollars")
	flags.StringVar(&opts.buyDate, "buy-date", "", "purchase date (YYYY-MM-DD)")
	flags.StringVar(&opts.sellPrice, "sell-price", "", "sale price in dollars")
	flags.StringVar(&opts.sellDate, "sell-date", "", "sale date (YYYY-MM-DD)")

	return cmd
}

func (a *app) runCalculate(cmd *cobra.Command, opts *calculateOptions) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}

	input, err := a.conf.Defaults.Input()
	if err != nil {
		return err
	}
	if input, err = opts.apply(input); err != nil {
		return err
	}

	result := assessment.AssessOne(a.logger, "calculate", input)
	if err := output.Write(a.out, format, []assessment.Assessment{result}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	a.logger.Debug("calculation complete",
		zap.String("op", "main.runCalculate"),
		zap.String("command", cmd.Name()),
		zap.Bool("failed", result.Failed()),
	)

	// The rejection has already been reported in the chosen format.
	if result.Failed() {
		return result.Err
	}
	return nil
}

// apply overrides input with every value given on the command line.
func (o *calculateOptions) apply(input cgt.DisposalInput) (cgt.DisposalInput, error) {
	var err error
	if o.buyPrice != "" {
		if input.BuyPrice, err = mathutil.Parse(o.buyPrice); err != nil {
			return cgt.DisposalInput{}, fmt.Errorf("--buy-price: %w", err)
		}
	}
	if o.sellPrice != "" {
		if input.SellPrice, err = mathutil.Parse(o.sellPrice); err != nil {
			return cgt.DisposalInput{}, fmt.Errorf("--sell-price: %w", err)
		}
	}
	if err := validation.ValidatePrice("buy price", input.BuyPrice); err != nil {
		return cgt.DisposalInput{}, err
	}
	if err := validation.ValidatePrice("sell price", input.SellPrice); err != nil {
		return cgt.DisposalInput{}, err
	}

	if input.BuyDate, err = datetime.ParseDateOr(o.buyDate, input.BuyDate); err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("--buy-date: %w", err)
	}
	if input.SellDate, err = datetime.ParseDateOr(o.sellDate, input.SellDate); err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("--sell-date: %w", err)
	}
	return input, nil
}
