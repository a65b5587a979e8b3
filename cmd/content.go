package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/playdeck/internal/contentcheck"
	"github.com/ziadkadry99/playdeck/internal/logger"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect the course content",
	Long:  `List the sections and activities of the configured course and check them for problems.`,
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections and their activities",
	RunE:  runContentList,
}

var contentCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and render every activity to find broken content",
	RunE:  runContentCheck,
}

func init() {
	contentCheckCmd.Flags().Bool("plain", false, "print one line per activity instead of a progress bar")

	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentCheckCmd)
	rootCmd.AddCommand(contentCmd)
}

func runContentList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg, logger.Nop())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tACTIVITY\tTYPE\tTITLE")
	for _, s := range cat.Sections() {
		for _, id := range s.Activities {
			typ, title := "-", "(missing)"
			if a, ok := cat.Activity(id); ok {
				typ, title = string(a.Type), a.Title
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, id, typ, title)
		}
	}
	w.Flush()

	fmt.Printf("\n%d sections, %d activities (content version %s)\n", len(cat.Sections()), len(cat.ActivityIDs()), cat.Version())
	if files := cat.Files(); len(files) > 0 {
		fmt.Printf("Files: %s\n", strings.Join(files, ", "))
	}
	return nil
}

func runContentCheck(cmd *cobra.Command, args []string) error {
	plain, _ := cmd.Flags().GetBool("plain")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg, logger.Nop())
	if err != nil {
		return err
	}

	var rep contentcheck.Reporter = contentcheck.NewReporter()
	if plain {
		rep = contentcheck.NewLineReporter(os.Stderr)
	}
	problems := contentcheck.Run(cat, rep)
	if len(problems) == 0 {
		fmt.Println("No problems found.")
		return nil
	}
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}
