package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/portfolio"
	"github.com/sells-group/capital-cli/internal/report"
)

var (
	batchInput       string
	batchOutput      string
	batchSheet       string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Calculate capital for every loan in a loan tape",
	Long:  "Reads a loan tape (CSV, XLSX, YAML or JSON), calculates each loan concurrently and prints a results table with portfolio totals. With --output the results are also written to a .json, .csv or .xlsx file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrentLoans
		}

		calc := capital.NewCalculator(cfg.CapitalOptions())
		return runBatch(ctx, cmd.OutOrStdout(), calc, batchParams{
			input:       batchInput,
			output:      batchOutput,
			sheet:       batchSheet,
			concurrency: concurrency,
		})
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "loan tape path (.csv, .xlsx, .yaml, .json)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "results file (.json, .csv, .xlsx)")
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent calculations (default from config)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

type batchParams struct {
	input       string
	output      string
	sheet       string
	concurrency int
}

func runBatch(ctx context.Context, out io.Writer, calc portfolio.Calculator, p batchParams) error {
	loans, err := portfolio.Load(ctx, p.input, portfolio.LoadOptions{Sheet: p.sheet})
	if err != nil {
		return eris.Wrap(err, "batch: load tape")
	}

	zap.L().Info("batch: loaded tape",
		zap.String("input", p.input),
		zap.Int("loans", len(loans)),
		zap.Int("concurrency", p.concurrency),
	)

	results, err := portfolio.NewRunner(calc, p.concurrency).Run(ctx, loans)
	if err != nil {
		return eris.Wrap(err, "batch: run")
	}
	summary := portfolio.Summarize(results)

	report.WriteResults(out, results)
	_, _ = fmt.Fprintln(out)
	report.WriteSummary(out, summary)

	if p.output != "" {
		if err := report.WriteFile(p.output, results, summary); err != nil {
			return eris.Wrap(err, "batch: write output")
		}
		zap.L().Info("batch: wrote results", zap.String("output", p.output))
	}

	return nil
}
