package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stratevo/lead-engine/internal/export"
	"github.com/stratevo/lead-engine/internal/store"
)

var (
	leadsTenant string
	leadsLimit  int
	leadsOut    string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and export stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context(), "leads")
		if err != nil {
			return err
		}
		defer env.Close()

		leads, err := env.Store.ListLeads(cmd.Context(), store.LeadFilter{
			TenantID: leadsTenant,
			Limit:    leadsLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTENANT\tCOMPANY\tCNPJ\tCONTACT\tSOURCE")
		for _, l := range leads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.TenantID,
				strOrDash(l.Data.CompanyName),
				strOrDash(l.Data.CNPJ),
				strOrDash(l.Data.ContactName),
				l.Data.Source,
			)
		}
		return w.Flush()
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one lead as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context(), "leads")
		if err != nil {
			return err
		}
		defer env.Close()

		found, err := env.Store.GetLead(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if found == nil {
			return eris.Errorf("lead %s not found", args[0])
		}
		return printJSON(found)
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to an XLSX spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if leadsOut == "" {
			return eris.New("--out is required")
		}

		env, err := initPipeline(cmd.Context(), "leads")
		if err != nil {
			return err
		}
		defer env.Close()

		leads, err := env.Store.ListLeads(cmd.Context(), store.LeadFilter{
			TenantID: leadsTenant,
			Limit:    leadsLimit,
		})
		if err != nil {
			return err
		}
		if err := export.WriteLeads(leadsOut, leads); err != nil {
			return err
		}
		fmt.Printf("exported %d leads to %s\n", len(leads), leadsOut)
		return nil
	},
}

func strOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func init() {
	leadsCmd.PersistentFlags().StringVar(&leadsTenant, "tenant", "", "filter by tenant id")
	leadsCmd.PersistentFlags().IntVar(&leadsLimit, "limit", 100, "maximum leads to fetch")
	leadsExportCmd.Flags().StringVar(&leadsOut, "out", "", "output XLSX path")
	leadsCmd.AddCommand(leadsListCmd, leadsShowCmd, leadsExportCmd)
	rootCmd.AddCommand(leadsCmd)
}
