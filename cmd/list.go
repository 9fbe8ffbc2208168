package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/cwarden/zcal/internal/parser"
	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list [date]",
	Short: "List the events of a day and exit",
	Long: `List the events of a day in a simple text format and exit. The date
defaults to today and accepts the same forms as the event form, such as
2024-06-01, 6/1, tomorrow or next friday.`,
	Args: cobra.ArbitraryArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "list every event, grouped by date")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, _, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	events := st.Events()

	if listAll {
		if len(events) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}
		slices.SortStableFunc(events, func(a, b calendar.Event) int {
			return strings.Compare(a.Date, b.Date)
		})
		for _, event := range events {
			fmt.Fprintf(out, "%s  %s  [%s]\n", event.Date, event.Label(), event.ID)
		}
		return nil
	}

	day := calendar.StartOfDay(time.Now())
	if len(args) > 0 {
		day, err = parser.NewDateParser().ParseDate(strings.Join(args, " "))
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Events for %s:\n", day.Format(cfg.DateFormat))
	dayEvents := calendar.EventsOnDay(events, day)
	if len(dayEvents) == 0 {
		fmt.Fprintln(out, "No events found.")
		return nil
	}

	for _, event := range dayEvents {
		fmt.Fprintf(out, "  %s  [%s]\n", event.Label(), event.ID)
	}

	return nil
}
