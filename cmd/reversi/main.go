package main

import (
	"os"

	"github.com/jaminalder/codex-reversi/internal/cli"
	"github.com/jaminalder/codex-reversi/internal/logging"
)

// main is the entry point for the reversi binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
