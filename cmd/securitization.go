package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/capital-cli/internal/report"
	"github.com/sells-group/capital-cli/internal/securitization"
)

var secFlags struct {
	approach          string
	exposure          float64
	trancheRating     string
	creditEnhancement float64
	output            string
}

var securitizationCmd = &cobra.Command{
	Use:   "securitization",
	Short: "Placeholder capital for a securitization tranche",
	Long:  "Applies fixed placeholder multipliers per securitization framework (SSFA, SEC-SA, SEC-ERBA, SEC-IRB). The regulatory formulas are not implemented.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res := securitization.Calculate(secFlags.approach, secFlags.exposure, secFlags.trancheRating, secFlags.creditEnhancement)
		return writeSecuritization(cmd.OutOrStdout(), secFlags.output, res)
	},
}

func init() {
	f := securitizationCmd.Flags()
	f.StringVar(&secFlags.approach, "approach", string(securitization.MethodSECSA), "framework: SSFA, SEC-SA, SEC-ERBA or SEC-IRB")
	f.Float64Var(&secFlags.exposure, "exposure", 0, "tranche exposure amount")
	f.StringVar(&secFlags.trancheRating, "tranche-rating", "", "tranche rating (recorded only)")
	f.Float64Var(&secFlags.creditEnhancement, "credit-enhancement", 0, "credit enhancement percent (recorded only)")
	f.StringVarP(&secFlags.output, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(securitizationCmd)
}

func writeSecuritization(out io.Writer, format string, r securitization.Result) error {
	if format != "table" {
		return writeStructured(out, format, r)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Status:\t%s\n", r.Status)
	if r.Error != "" {
		_, _ = fmt.Fprintf(w, "Error:\t%s\n", r.Error)
		_ = w.Flush()
		return nil
	}
	_, _ = fmt.Fprintf(w, "Approach:\t%s\n", r.Approach)
	_, _ = fmt.Fprintf(w, "Exposure:\t%s\n", report.Currency(r.EAD))
	_, _ = fmt.Fprintf(w, "Risk weight:\t%s\n", report.Percent(r.RiskWeight))
	_, _ = fmt.Fprintf(w, "RWA:\t%s\n", report.Currency(r.RWA))
	_, _ = fmt.Fprintf(w, "Capital required:\t%s\n", report.Currency(r.CapitalRequired))
	_, _ = fmt.Fprintf(w, "Notes:\t%s\n", r.Notes)
	_ = w.Flush()
	return nil
}
