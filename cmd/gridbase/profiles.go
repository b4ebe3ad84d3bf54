package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

var addProfileFlags struct {
	alias      string
	dbType     string
	host       string
	port       int
	user       string
	password   string
	database   string
	filePath   string
	connString string
	sslMode    string
}

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage connection profiles",
	Long:  `Commands for managing stored connection profiles: listing, adding, removing, and testing connections.`,
}

// listProfilesCmd represents the list command
var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		profiles := a.profiles.List()
		ids := make([]string, 0, len(profiles))
		for id := range profiles {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tALIAS\tTYPE\tTARGET\tCONNECTED")
		for _, id := range ids {
			p := profiles[id]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
				p.ID, p.Alias, p.Config.DatabaseID, p.Target(), a.registry.Status(id))
		}
		return w.Flush()
	},
}

// addProfileCmd represents the add command
var addProfileCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new connection profile",
	Long:  `Add a new connection profile from the provided connection flags. The profile identifier is printed on success.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType, ok := dbcapabilities.ParseID(addProfileFlags.dbType)
		if !ok {
			return fmt.Errorf("unknown database type %q", addProfileFlags.dbType)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		id, err := a.profiles.Add(addProfileFlags.alias, adapter.ConnectionConfig{
			DatabaseID:       dbType,
			Host:             addProfileFlags.host,
			Port:             addProfileFlags.port,
			Username:         addProfileFlags.user,
			Password:         addProfileFlags.password,
			DatabaseName:     addProfileFlags.database,
			FilePath:         addProfileFlags.filePath,
			ConnectionString: addProfileFlags.connString,
			SSLMode:          addProfileFlags.sslMode,
		})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

// removeProfileCmd represents the remove command
var removeProfileCmd = &cobra.Command{
	Use:   "remove [profile-id]",
	Short: "Remove a connection profile",
	Long:  `Disconnect the profile's live connection if one exists, then delete the profile from the store.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.registry.Remove(args[0])
	},
}

// testProfileCmd represents the test command
var testProfileCmd = &cobra.Command{
	Use:   "test [profile-id]",
	Short: "Test a profile's connection",
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
		fmt.Printf("connected to %s\n", conn.Type())
		return nil
	},
}

func setupProfileCommands() {
	addProfileCmd.Flags().StringVar(&addProfileFlags.alias, "alias", "", "Human-readable profile name")
	addProfileCmd.Flags().StringVar(&addProfileFlags.dbType, "type", "", "Database type (postgres, mysql, sqlite, mongodb)")
	addProfileCmd.Flags().StringVar(&addProfileFlags.host, "host", "", "Database host")
	addProfileCmd.Flags().IntVar(&addProfileFlags.port, "port", 0, "Database port (backend default when omitted)")
	addProfileCmd.Flags().StringVar(&addProfileFlags.user, "user", "", "Username")
	addProfileCmd.Flags().StringVar(&addProfileFlags.password, "password", "", "Password")
	addProfileCmd.Flags().StringVar(&addProfileFlags.database, "database", "", "Database name")
	addProfileCmd.Flags().StringVar(&addProfileFlags.filePath, "file", "", "Database file path (sqlite)")
	addProfileCmd.Flags().StringVar(&addProfileFlags.connString, "conn-string", "", "Full connection string (overrides other flags)")
	addProfileCmd.Flags().StringVar(&addProfileFlags.sslMode, "ssl-mode", "", "SSL mode (postgres)")
	_ = addProfileCmd.MarkFlagRequired("type")

	profilesCmd.AddCommand(listProfilesCmd)
	profilesCmd.AddCommand(addProfileCmd)
	profilesCmd.AddCommand(removeProfileCmd)
	profilesCmd.AddCommand(testProfileCmd)
	rootCmd.AddCommand(profilesCmd)
}
