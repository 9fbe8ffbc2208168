package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, _, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	event, ok := st.Event(args[0])
	if !ok {
		return fmt.Errorf("no event with id %s", args[0])
	}

	st.DeleteEvent(event.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s on %s\n", event.Label(), event.Date)
	return nil
}
