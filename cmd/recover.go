package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	recoverTenant string
	recoverLimit  int
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Re-process orphan conversations into leads",
	Long:  "Scans conversations that never produced a lead and re-runs extraction, useful after tenant vocabulary updates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context(), "recover")
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.Pipeline.RecoverOrphans(cmd.Context(), recoverTenant, recoverLimit)
		if err != nil {
			return err
		}
		zap.L().Info("recovery finished",
			zap.Int("scanned", report.Scanned),
			zap.Int("recovered", report.Recovered),
			zap.Int("skipped", report.Skipped),
		)
		return printJSON(report)
	},
}

func init() {
	recoverCmd.Flags().StringVar(&recoverTenant, "tenant", "", "tenant id to recover")
	recoverCmd.Flags().IntVar(&recoverLimit, "limit", 100, "maximum orphans to scan")
	rootCmd.AddCommand(recoverCmd)
}
