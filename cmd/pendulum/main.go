package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/observability"
)

// main runs the pendulum CLI and exits with status 1 when the command fails.
func main() {
	root := newRootCmd(newApp(os.Stderr))
	err := root.Execute()
	if err != nil {
		observability.GetLogger().Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
