package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the multimail-mcp application
var rootCmd = &cobra.Command{
	Use:   "multimail-mcp",
	Short: "MCP server for the MultiMail agent email API",
	Long: `multimail-mcp exposes MultiMail mailboxes to AI assistants over the
Model Context Protocol (MCP).

Each tool call is translated into an authenticated request against the
MultiMail HTTP API, so the assistant can read inboxes, send and reply to
emails, manage tags and contacts, and handle oversight approvals.

Configuration comes from the environment:
  MULTIMAIL_API_KEY       API key (required)
  MULTIMAIL_MAILBOX_ID    default mailbox for mailbox-scoped tools
  MULTIMAIL_API_URL       API endpoint override (default: https://api.multimail.dev)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "multimail-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("multimail-mcp version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
