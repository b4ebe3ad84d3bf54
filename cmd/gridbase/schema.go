package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables [profile-id]",
	Short: "List tables or collections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		conn, err := a.registry.EnsureConnected(context.Background(), args[0])
		if err != nil {
			return err
		}
		tables, err := conn.SchemaOperations().ListTables(context.Background())
		if err != nil {
			return err
		}
		for _, table := range tables {
			fmt.Println(table)
		}
		return nil
	},
}

// columnsCmd represents the columns command
var columnsCmd = &cobra.Command{
	Use:   "columns [profile-id] [table]",
	Short: "List columns or fields of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		conn, err := a.registry.EnsureConnected(context.Background(), args[0])
		if err != nil {
			return err
		}
		columns, err := conn.SchemaOperations().ListColumns(context.Background(), args[1])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tNOT NULL\tPRIMARY KEY")
		for _, col := range columns {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", col.Name, col.DataType, col.NotNull, col.IsPrimaryKey)
		}
		return w.Flush()
	},
}

func setupSchemaCommands() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(columnsCmd)
}
