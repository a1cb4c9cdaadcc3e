package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"projecthub/internal/activity"
	"projecthub/pkg/db"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print the most recent entries of the Postgres audit log",
		Long: `Print the most recent entries of the Postgres audit log.

Examples:
  # Last 20 entries
  projecthub audit

  # JSON output
  projecthub audit --limit=100 --json
`,
		RunE: runAudit,
	}
	cmd.Flags().Int("limit", 20, "Number of entries to print")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}

	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	pool, err := db.NewConnection(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	entries, err := activity.NewAuditRepository(pool, log).Recent(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINSTANCE\tSEQ\tCREATED\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			e.ID, e.InstanceID, e.Seq, e.CreatedAt.Format(time.RFC3339), e.Message)
	}
	return w.Flush()
}
