package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cwarden/zcal/internal/export"
	"github.com/cwarden/zcal/internal/ics"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export events as cards or iCalendar files",
}

var exportCardCmd = &cobra.Command{
	Use:   "card <id>",
	Short: "Render an event card as PNG and share it",
	Long: `Render an event card in the current theme. The card is saved as
"<title>-calendar-event.png" in the export directory and handed to
share_command when one is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportCard,
}

var exportICSCmd = &cobra.Command{
	Use:   "ics [file]",
	Short: "Write all events as an iCalendar file (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExportICS,
}

func init() {
	exportCardCmd.Flags().StringVar(&exportDir, "dir", "", "directory for the card (default export_dir)")
	exportCmd.AddCommand(exportCardCmd, exportICSCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExportCard(cmd *cobra.Command, args []string) error {
	st, logger, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	event, ok := st.Event(args[0])
	if !ok {
		return fmt.Errorf("no event with id %s", args[0])
	}

	dir := cfg.ExportDir
	if exportDir != "" {
		dir = exportDir
	}

	exporter := &export.Exporter{
		Dir:    dir,
		Sharer: export.NewCommandSharer(cfg.ShareCommand),
		Logger: logger,
	}
	outcome, err := exporter.Share(context.Background(), event, st.State().Theme)
	if err != nil {
		return err
	}

	if outcome.Shared {
		fmt.Fprintf(cmd.OutOrStdout(), "Shared %s\n", outcome.Path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", outcome.Path)
	}
	return nil
}

func runExportICS(cmd *cobra.Command, args []string) error {
	st, _, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 0 {
		return ics.Encode(cmd.OutOrStdout(), st.Events())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := ics.Encode(f, st.Events()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s\n", len(st.Events()), args[0])
	return nil
}
