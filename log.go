package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// applyLogLevel applies the log.level config key, if set. Called at
// startup and again whenever the watched config file changes.
func applyLogLevel() {
	lvl := viper.GetString("log.level")
	if lvl == "" {
		return
	}
	parsed, err := log.ParseLevel(lvl)
	if err != nil {
		log.Warn("unknown log level in config", "level", lvl)
		return
	}
	log.SetLevel(parsed)
}

// setupLog discards log output by default and sends it to a file when
// WORDWEAVE_DEBUG is set, so logging never bleeds into the rendered poem.
// The returned closer must be called before exit.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	if os.Getenv("WORDWEAVE_DEBUG") == "" {
		return func() error { return nil }, nil
	}

	scope := gap.NewScope(gap.User, appName)
	path, err := scope.LogPath(appName + ".log")
	if err != nil {
		return nil, fmt.Errorf("unable to resolve log path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	log.Debug("debug logging enabled", "path", path)

	return f.Close, nil
}
