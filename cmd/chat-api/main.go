package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chat-api",
	Short: "Conversational chat backend",
	Long: `chat-api stores conversations and their messages, forwards each user
message with its history to an OpenAI compatible LLM, and stores the reply.

Examples:
  chat-api serve       # run the HTTP API
  chat-api migrate     # apply the PostgreSQL schema and exit`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
