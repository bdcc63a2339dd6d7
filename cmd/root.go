package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/capital-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "capital-cli",
	Short:        "Basel regulatory capital calculator for loan exposures",
	Long:         "Computes risk-weighted assets and required capital for loans under Basel II and Basel III, using the Standardized and IRB approaches with jurisdictional floors and the Basel III output floor.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
