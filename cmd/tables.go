package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/capital-cli/internal/coerce"
	"github.com/sells-group/capital-cli/internal/report"
	"github.com/sells-group/capital-cli/internal/standardized"
)

var (
	tablesRegime string
	tablesOutput string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the Standardized risk-weight grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTables(cmd.OutOrStdout(), tablesRegime, tablesOutput)
	},
}

func init() {
	tablesCmd.Flags().StringVar(&tablesRegime, "regime", "basel3", "basel2 or basel3")
	tablesCmd.Flags().StringVarP(&tablesOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(tablesCmd)
}

func writeTables(out io.Writer, rawRegime, format string) error {
	regime, ok := coerce.Regime(rawRegime)
	if !ok {
		return eris.Errorf("tables: unknown regime %q", rawRegime)
	}

	rows := standardized.Table(regime)
	if format == "table" {
		report.WriteRiskWeights(out, rows)
		return nil
	}
	return writeStructured(out, format, rows)
}
