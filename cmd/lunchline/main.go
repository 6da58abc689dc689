// Command lunchline inspects and flushes the LunchLine offline queue.
package main

import (
	"os"

	"github.com/lunchline/core/internal/cli"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = Version

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
