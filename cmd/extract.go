package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stratevo/lead-engine/internal/extract"
	"github.com/stratevo/lead-engine/internal/tenant"
)

var (
	extractTenant string
	extractFile   string
	extractSave   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract a lead record from conversation text",
	Long:  "Runs extraction on the given text (or --file) and prints the lead as JSON. With --save the lead is persisted through the full pipeline.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args)
		if err != nil {
			return err
		}

		if extractSave {
			env, err := initPipeline(cmd.Context(), "extract")
			if err != nil {
				return err
			}
			defer env.Close()

			result, err := env.Pipeline.Process(cmd.Context(), extractTenant, text)
			if err != nil {
				return err
			}
			return printJSON(result)
		}

		// Pure local extraction, no store needed.
		tenants, err := tenant.LoadDir(cfg.Tenants.Dir)
		if err != nil {
			return err
		}

		result := extract.Extract(text, tenants.Get(extractTenant))
		return printJSON(result)
	},
}

func readText(args []string) (string, error) {
	if extractFile != "" {
		raw, err := os.ReadFile(extractFile)
		if err != nil {
			return "", eris.Wrap(err, "read input file")
		}
		return string(raw), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", eris.New("provide conversation text as an argument or via --file")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	extractCmd.Flags().StringVar(&extractTenant, "tenant", "", "tenant id for vocabulary-aware extraction")
	extractCmd.Flags().StringVar(&extractFile, "file", "", "read conversation text from file")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "persist the lead through the full pipeline")
	rootCmd.AddCommand(extractCmd)
}
