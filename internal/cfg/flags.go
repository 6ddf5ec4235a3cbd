package cfg

import (
	"strings"

	"grabarr/internal/domain/keys"

	"github.com/spf13/viper"
)

// initProgramFlags initializes root-level flags shared by every command.
func initProgramFlags() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("grabarr")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Debug level
	rootCmd.PersistentFlags().Int(keys.DebugLevel, 0, "Debug level (0-5)")
	viper.BindPFlag(keys.DebugLevel, rootCmd.PersistentFlags().Lookup(keys.DebugLevel))

	// Proxy override (autodetected from the environment when unset)
	rootCmd.PersistentFlags().String(keys.Proxy, "", "Proxy URL for all network operations (e.g. socks5h://127.0.0.1:1080)")
	viper.BindPFlag(keys.Proxy, rootCmd.PersistentFlags().Lookup(keys.Proxy))

	// History database location
	rootCmd.PersistentFlags().String(keys.HistoryDB, "", "Path to the download history database (empty disables history)")
	viper.BindPFlag(keys.HistoryDB, rootCmd.PersistentFlags().Lookup(keys.HistoryDB))
}
