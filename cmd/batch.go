package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratevo/lead-engine/internal/export"
)

var (
	batchTenant     string
	batchFile       string
	batchImportOnly bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a spreadsheet of conversations",
	Long:  "Reads conversation texts from the first column of an XLSX file and runs each through the extraction pipeline. With --import-only the texts are only stored for a later recover run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchFile == "" {
			return eris.New("--file is required")
		}
		if !strings.HasSuffix(batchFile, ".xlsx") {
			return eris.New("--file must be an .xlsx spreadsheet")
		}

		env, err := initPipeline(cmd.Context(), "extract")
		if err != nil {
			return err
		}
		defer env.Close()

		texts, err := export.ReadConversations(batchFile)
		if err != nil {
			return err
		}

		if batchImportOnly {
			n, err := env.Pipeline.ImportConversations(cmd.Context(), batchTenant, texts)
			if err != nil {
				return err
			}
			zap.L().Info("import finished", zap.Int64("conversations", n))
			return nil
		}

		results, err := env.Pipeline.ProcessBatch(cmd.Context(), batchTenant, texts)
		if err != nil {
			return err
		}

		created, updated, skipped := 0, 0, 0
		for _, r := range results {
			switch {
			case r.Created:
				created++
			case r.Updated:
				updated++
			default:
				skipped++
			}
		}
		zap.L().Info("batch finished",
			zap.Int("conversations", len(results)),
			zap.Int("created", created),
			zap.Int("updated", updated),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchTenant, "tenant", "", "tenant id for vocabulary-aware extraction")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "XLSX file with one conversation per row")
	batchCmd.Flags().BoolVar(&batchImportOnly, "import-only", false, "store conversations without extracting; process them later with recover")
	rootCmd.AddCommand(batchCmd)
}
