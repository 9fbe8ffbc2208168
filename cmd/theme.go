package cmd

import (
	"fmt"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [name]",
	Short: "Show or set the calendar theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	st, _, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		current := st.State().Theme
		for _, theme := range calendar.AllThemes() {
			marker := " "
			if theme == current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, theme)
		}
		return nil
	}

	theme, err := calendar.ParseTheme(args[0])
	if err != nil {
		return err
	}
	st.SetTheme(theme)
	fmt.Fprintf(out, "Theme set to %s\n", theme)
	return nil
}
