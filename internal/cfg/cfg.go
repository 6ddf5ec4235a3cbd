// Package cfg provides configuration and command-line interface setup for grabarr.
package cfg

import (
	"grabarr/internal/app"
	"grabarr/internal/database"
	"grabarr/internal/domain/keys"
	"grabarr/internal/repo"
	"grabarr/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	application *app.App
	histDB      *database.Database
)

var rootCmd = &cobra.Command{
	Use:   "grabarr",
	Short: "Grabarr fetches video metadata and downloads through external tools.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Level = viper.GetInt(keys.DebugLevel)
		if err := verifyFlags(); err != nil {
			return err
		}
		return openHistory()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if histDB != nil {
			if err := histDB.Close(); err != nil {
				logging.D(1, "History database close failed: %v", err)
			}
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("help").Changed {
			return nil
		}
		return cmd.Help()
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands(a *app.App) {
	application = a
	initProgramFlags()

	rootCmd.AddCommand(initInfoCmd(a))
	rootCmd.AddCommand(initDownloadCmd(a))
	rootCmd.AddCommand(initStatusCmd(a))
	rootCmd.AddCommand(initToolsCmd(a))
	rootCmd.AddCommand(initHistoryCmd(a))
}

// openHistory attaches the download history store when a database path is
// configured. Flags are parsed by the time this runs.
func openHistory() error {
	path := viper.GetString(keys.HistoryDB)
	if path == "" {
		return nil
	}

	db, err := database.InitDB(path)
	if err != nil {
		return err
	}
	histDB = db
	application.WithHistory(repo.GetDownloadStore(db.DB))
	return nil
}

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}
