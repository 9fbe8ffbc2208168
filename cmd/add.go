package cmd

import (
	"fmt"
	"strings"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/cwarden/zcal/internal/parser"
	"github.com/spf13/cobra"
)

var (
	addEmoji string
	addColor string
	addDate  string
)

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add an event",
	Long: `Add an event from a quick-entry line. A leading date expression sets
the day and the rest becomes the title, so "tomorrow Lunch with Sam"
adds "Lunch with Sam" tomorrow. Without a date the event goes on today.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addEmoji, "emoji", "e", "", "emoji shown before the title")
	addCmd.Flags().StringVar(&addColor, "color", "", "event color")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "event date; the whole text is then the title")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	p := parser.NewDateParser()
	text := strings.Join(args, " ")

	data := calendar.EventData{Emoji: addEmoji, Color: addColor}
	if addDate != "" {
		day, err := p.ParseDate(addDate)
		if err != nil {
			return err
		}
		data.Title = strings.TrimSpace(text)
		data.Date = calendar.FormatDate(day)
	} else {
		entry, err := p.Parse(text)
		if err != nil {
			return err
		}
		data.Title = entry.Text
		data.Date = calendar.FormatDate(entry.Date)
	}

	if err := data.Validate(); err != nil {
		return err
	}

	st, _, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	event, err := st.AddEvent(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s [%s]\n", event.Label(), event.Date, event.ID)
	return nil
}
