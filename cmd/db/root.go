package db

import (
	"github.com/spf13/cobra"

	"github.com/localdb/localdb/cmd/util"
	"github.com/localdb/localdb/lib/store"
)

var (
	docStore store.DocumentStore

	// DBCommands represents the document store command group
	DBCommands = &cobra.Command{
		Use:               "db",
		Short:             "Perform document store operations",
		PersistentPreRunE: setupStore,
		PersistentPostRun: teardownStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	DBCommands.AddCommand(putCmd)
	DBCommands.AddCommand(getCmd)
	DBCommands.AddCommand(updateCmd)
	DBCommands.AddCommand(delCmd)
	DBCommands.AddCommand(listCmd)
	DBCommands.AddCommand(clearCmd)
	DBCommands.AddCommand(resetCmd)
	DBCommands.AddCommand(infoCmd)
	DBCommands.AddCommand(perfCmd)
}

// setupStore opens the configured store for the invoked subcommand
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	util.ApplyLogLevel()

	var err error
	docStore, err = util.OpenStore()
	return err
}

func teardownStore(_ *cobra.Command, _ []string) {
	if docStore != nil && !docStore.IsClosed() {
		docStore.Close()
	}
}
