// Package commands implements the recruitctl subcommands.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recruitctl",
		Short: "Recruitment assistant operator CLI",
		Long: `recruitctl operates the recruitment assistant outside the HTTP API:
chat with the assistant from a terminal, import the interview schedule,
and inspect build information.

Configuration comes from the same environment variables as the server
(DB_PATH, SCHEDULE_PATH, JOBSPEC_PATH, OPENAI_API_KEY, ...); a .env file
in the working directory is honored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
