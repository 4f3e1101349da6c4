package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "chatstats [file]",
		Short: "Chart chat log messages per minute",
		Long: `chatstats reads chat logs with lines like
  [2025-10-20 02:57:56 UTC] alice: hello
and charts how many messages were sent in every minute.

Without a subcommand it opens the terminal UI.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUICommand(cmd.Context(), opts, args)
		},
	}
	rootCmd.SetVersionTemplate(versionText())

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/chatstats/config.yml)")

	rootCmd.AddCommand(newTUICommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newReportCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}

func versionText() string {
	return fmt.Sprintf("chatstats - Chat Messages per Minute\n"+
		"  Version:    %s\n"+
		"  Commit:     %s\n"+
		"  Built:      %s\n"+
		"  Go version: %s\n", version, commit, buildTime, goVersion)
}

// configureRuntimeLogger points the standard logger at path, creating its
// directory. "-" logs to stderr. The returned func closes the file.
func configureRuntimeLogger(path string) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if path == "" || path == "-" {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}
