package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grabarr/internal/app"
	"grabarr/internal/cfg"
	"grabarr/internal/utils/logging"
)

var startTime time.Time

func init() {
	startTime = time.Now()
}

// main is the program entrypoint.
func main() {
	setupFileLogging()

	cfg.InitCommands(app.New())

	if err := cfg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Println()
		os.Exit(1)
	}

	logging.D(1, "Finished in %.2f seconds", time.Since(startTime).Seconds())
}

// setupFileLogging mirrors console output into a log file under the user
// cache directory. Failure is not fatal; console logging still works.
func setupFileLogging() {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return
	}

	logDir := filepath.Join(cacheDir, "grabarr")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		fmt.Printf("Notice: log file was not created\nReason: %v\n", err)
		return
	}
	if err := logging.SetupLogging(logDir); err != nil {
		fmt.Printf("Notice: log file was not created\nReason: %v\n", err)
	}
}
