package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"groundchat/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "groundchat",
	Short: "Chat with Gemini, grounded in web search",
	Long: `groundchat serves a browser chat page that forwards each message, with an
optional photo, to Gemini with Google Search grounding and shows the answer
together with the web sources it cites.

Quick Start:
  API_KEY=... groundchat                     # Serve the chat page
  API_KEY=... groundchat ask "Who won?"      # One-shot question in the terminal`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err unless the command already showed it to the user.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errAlreadyShown) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML or YAML config file")
}

// loadConfig fails fast on a missing API key or a bad config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	return cfg, nil
}
