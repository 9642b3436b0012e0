package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config/history"
)

var historyFlags struct {
	db       string
	store    string
	status   string
	limit    int
	allStore bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded reload attempts",
	Long: `List the reload attempts recorded by "confstore watch --history", newest
first. By default only entries of the selected profile are shown.

Examples:
  # Last 20 reloads of the translation profile
  confstore history --db history.db

  # Rejected reloads of every profile as JSON
  confstore history --db history.db --all --status rejected --format json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.db, "db", "confstore-history.db", "SQLite history database")
	historyCmd.Flags().StringVar(&historyFlags.store, "store", "", "store name (defaults to the profile name)")
	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "only show entries with this status: applied, rejected")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of entries (0 for all)")
	historyCmd.Flags().BoolVar(&historyFlags.allStore, "all", false, "show entries of every store")
}

// historyTable renders history entries as rows.
type historyTable []*history.Entry

func (t historyTable) Header() []string {
	return []string{"ID", "RECORDED", "STORE", "STATUS", "REVISION", "DURATION", "DETAIL"}
}

func (t historyTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, e := range t {
		detail := e.Message
		if e.Status == history.StatusApplied {
			detail = fmt.Sprintf("%d changed", len(e.Changed))
		} else if len(e.Errors) > 0 {
			detail = fmt.Sprintf("%d errors, first: %s", len(e.Errors), e.Errors[0].Error())
		}
		rows[i] = []string{
			strconv.FormatInt(e.ID, 10),
			e.RecordedAt.Local().Format(time.DateTime),
			e.Store,
			string(e.Status),
			shortRevision(e.Revision),
			e.Duration.Round(time.Microsecond).String(),
			detail,
		}
	}
	return rows
}

func runHistory(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	query := history.Query{Limit: historyFlags.limit}
	switch strings.ToLower(historyFlags.status) {
	case "":
	case string(history.StatusApplied):
		query.Status = history.StatusApplied
	case string(history.StatusRejected):
		query.Status = history.StatusRejected
	default:
		return cli.NewConfigError("--status", fmt.Sprintf("unknown status %q: must be 'applied' or 'rejected'", historyFlags.status))
	}

	if !historyFlags.allStore {
		query.Store = historyFlags.store
		if query.Store == "" {
			schema, _, err := resolveSchema()
			if err != nil {
				return err
			}
			query.Store = schema.Name
		}
	}

	if _, err := os.Stat(historyFlags.db); err != nil {
		return cli.NewCommandError("history", fmt.Errorf("history database not found: %w", err))
	}
	backend, err := history.NewSQLiteBackend(historyFlags.db)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer backend.Close()

	entries, err := backend.List(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	return formatter.FormatTo(cmd.OutOrStdout(), historyTable(entries))
}

func shortRevision(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	if rev == "" {
		return "-"
	}
	return rev
}
