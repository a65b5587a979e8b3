package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/playdeck/internal/logger"
	"github.com/ziadkadry99/playdeck/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset learner progress",
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners with stored progress",
	RunE:  runProgressList,
}

var progressShowCmd = &cobra.Command{
	Use:   "show <learner>",
	Short: "Show a learner's completions and badges",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressShow,
}

var progressResetCmd = &cobra.Command{
	Use:   "reset <learner>",
	Short: "Delete a learner's completions and badges",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressReset,
}

func init() {
	progressResetCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	progressCmd.AddCommand(progressListCmd)
	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
	rootCmd.AddCommand(progressCmd)
}

// openTracker wires a tracker over the configured database and course.
// The returned func closes the database.
func openTracker() (*progress.Tracker, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(cfg, logger.Nop())
	if err != nil {
		return nil, nil, err
	}
	database, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	tracker := progress.NewTracker(progress.NewStore(database), cat, logger.Nop())
	return tracker, func() { database.Close() }, nil
}

func runProgressList(cmd *cobra.Command, args []string) error {
	tracker, closeDB, err := openTracker()
	if err != nil {
		return err
	}
	defer closeDB()

	learners, err := tracker.Store().Learners(context.Background())
	if err != nil {
		return err
	}
	if len(learners) == 0 {
		fmt.Println("No progress recorded yet.")
		return nil
	}
	for _, l := range learners {
		fmt.Println(l)
	}
	return nil
}

func runProgressShow(cmd *cobra.Command, args []string) error {
	tracker, closeDB, err := openTracker()
	if err != nil {
		return err
	}
	defer closeDB()

	s, err := tracker.Summary(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Learner: %s\n\n", s.Learner)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tTITLE\tDONE")
	for _, sp := range s.Sections {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\n", sp.SectionID, sp.Title, sp.Completed, sp.Total)
	}
	w.Flush()

	if len(s.Badges) > 0 {
		fmt.Println("\nBadges:")
		for _, b := range s.Badges {
			fmt.Printf("  - %s (%s)\n", b.Badge, b.UnlockedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runProgressReset(cmd *cobra.Command, args []string) error {
	learner := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Delete all progress for %s", learner),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("Aborted.")
			return nil
		}
	}

	tracker, closeDB, err := openTracker()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := tracker.Reset(context.Background(), learner, "cli"); err != nil {
		return err
	}
	fmt.Printf("Progress for %s deleted.\n", learner)
	return nil
}
