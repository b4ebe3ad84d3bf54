package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "0.1.0"
	// Build information variables
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func printVersionInfo() {
	fmt.Printf("gridbase v%s (commit %s, built %s)\n", version, GitCommit, BuildTime)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridbase",
	Short: "Multi-backend database browser and grid editor",
	Long: "gridbase connects to PostgreSQL, MySQL, SQLite and MongoDB databases, browses their schema, " +
		"runs ad-hoc queries, and reconciles grid-style edits back into write operations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("version").Changed {
			printVersionInfo()
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("profiles", defaultProfilesPath(), "Path to the profile store file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	viper.SetEnvPrefix("GRIDBASE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("profiles", rootCmd.PersistentFlags().Lookup("profiles"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	setupProfileCommands()
	setupSchemaCommands()
	setupQueryCommands()
}

func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gridbase-profiles.json"
	}
	return home + "/.gridbase/profiles.json"
}

func main() {
	Execute()
}
