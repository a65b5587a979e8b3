package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/playdeck/internal/audit"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect or prune the activity journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	RunE:  runJournalList,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete journal entries older than a cutoff",
	Long: `Delete journal entries recorded before --before, which takes either an
RFC 3339 time (2024-03-01T00:00:00Z) or an age such as 720h or 30d.`,
	RunE: runJournalPrune,
}

func init() {
	journalListCmd.Flags().String("learner", "", "only entries for this learner")
	journalListCmd.Flags().Int("limit", 50, "maximum entries to show")

	journalPruneCmd.Flags().String("before", "", "cutoff time or age (required)")
	journalPruneCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	journalPruneCmd.MarkFlagRequired("before")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalPruneCmd)
	rootCmd.AddCommand(journalCmd)
}

// openJournal opens the journal over the configured database. The returned
// func closes the database.
func openJournal() (*audit.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return audit.NewStore(database), func() { database.Close() }, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	learner, _ := cmd.Flags().GetString("learner")
	limit, _ := cmd.Flags().GetInt("limit")

	journal, closeDB, err := openJournal()
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := journal.Query(context.Background(), audit.QueryFilter{Learner: learner, Limit: limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("The journal is empty.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tLEARNER\tACTION\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Learner, e.Action, e.Summary)
	}
	return w.Flush()
}

func runJournalPrune(cmd *cobra.Command, args []string) error {
	before, _ := cmd.Flags().GetString("before")
	yes, _ := cmd.Flags().GetBool("yes")

	cutoff, err := audit.Cutoff(before, time.Now())
	if err != nil {
		return err
	}
	if !yes {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Delete journal entries before %s", cutoff.Format(time.RFC3339)),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("Aborted.")
			return nil
		}
	}

	journal, closeDB, err := openJournal()
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := journal.DeleteBefore(context.Background(), cutoff)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d journal entries.\n", n)
	return nil
}
