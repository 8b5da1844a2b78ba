// Command recruitctl is the operator CLI for the recruitment assistant:
// a local console chat loop, schedule seeding, and build information.
package main

import (
	"fmt"
	"os"

	"github.com/tbourn/go-recruit-assistant/cmd/recruitctl/commands"
)

// Version information (set by -ldflags at release time).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
