package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [profile-id] [command]",
	Short: "Run an ad-hoc query or command",
	Long: `Run a free-text command against the profile's database: SQL for relational backends, or a ` +
		`collection.operation(...) command for MongoDB. Results are printed as JSON rows.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		rows, err := a.sessions.Query(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [profile-id] [table]",
	Short: "Fetch the first page of a table's rows",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		view, err := a.sessions.Open(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		defer a.sessions.Close(view.SessionID)

		fmt.Fprintf(os.Stderr, "session %s: %d rows\n", view.SessionID, len(view.Rows))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view.Rows)
	},
}

func setupQueryCommands() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(fetchCmd)
}
