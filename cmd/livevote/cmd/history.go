package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/f3rmion/livevote/internal/history"
	"github.com/f3rmion/livevote/internal/vote"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history [db]",
	Short: "Show recorded tallies",
	Long: `Print tallies recorded with --record, newest first.

The database defaults to the --record flag (or LIVEVOTE_RECORD).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "number of snapshots to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	path := viper.GetString("record")
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no database given: pass a path or --record")
	}

	store, err := history.Open(path, history.ModePoll)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No tallies recorded.")
		return nil
	}

	for _, s := range snaps {
		fmt.Printf("%s  %-6s  total %-7d  %s\n",
			s.RecordedAt.Format("2006-01-02 15:04:05"), s.Mode, s.Total, formatCounts(s.Tally))
	}
	return nil
}

// formatCounts lists counts by option ID in a stable order.
func formatCounts(t vote.Tally) string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%d", id, t[vote.OptionID(id)])
	}
	return strings.Join(parts, " ")
}
