package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localdb/localdb/cmd/db"
	"github.com/localdb/localdb/cmd/util"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "localdb",
		Short: "embedded local document store",
		Long: fmt.Sprintf(`localdb (v%s)

An embedded, schemaless JSON document store with interchangeable
storage backends and serialized writes.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of localdb",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("localdb v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(db.DBCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "backend"
	RootCmd.PersistentFlags().String(key, "sqlite", util.WrapString("storage backend to use (sqlite, memory)"))
	key = "dir"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("directory for file-based backends (defaults to the user config dir)"))
	key = "name"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("logical store name"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warning", util.WrapString("log level (debug, info, warning, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
