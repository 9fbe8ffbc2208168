package cmd

import (
	"fmt"
	"os"

	"github.com/cwarden/zcal/internal/ics"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.ics>",
	Short: "Add the events of an iCalendar file",
	Long: `Add every VEVENT of an iCalendar file as a new event on its start
day. Events whose UID matches an event already in the calendar, such as
those from a zcal export, are left alone. Recurrence rules and times of
day are not carried over.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := ics.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	st, logger, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	added, present := 0, 0
	for _, entry := range result.Events {
		if _, ok := st.Event(entry.UID); ok && entry.UID != "" {
			logger.Debug("event already in calendar", "uid", entry.UID)
			present++
			continue
		}
		if _, err := st.AddEvent(entry.Data); err != nil {
			logger.Error("failed to import event", "title", entry.Data.Title, "err", err)
			continue
		}
		added++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events", added)
	if present > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", %d already present", present)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", result.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
