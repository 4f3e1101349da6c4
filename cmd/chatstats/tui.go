package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/chatsource"
	"github.com/tinytelemetry/chatstats/internal/tui"
)

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [file|-]",
		Short: "Open the terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUICommand(cmd.Context(), opts, args)
		},
	}
}

func runTUICommand(ctx context.Context, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	return runTUI(ctx, cfg, args)
}

func runTUI(ctx context.Context, cfg appConfig, args []string) error {
	cleanupLogger := configureRuntimeLogger(cfg.LogFile)
	defer cleanupLogger()
	// The TUI owns the terminal.
	if cfg.LogFile == "-" {
		log.SetOutput(io.Discard)
	}

	shell := appshell.New(cfg.shellConfig())
	pageOpts := tui.Options{ReverseScrollWheel: cfg.ReverseScrollWheel}

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	}

	switch {
	case len(args) == 1 && args[0] != "-":
		pageOpts.InitialPath = args[0]
	case len(args) == 1 || chatsource.IsStdinPiped():
		// stdin carries the log, so keys come from the terminal device.
		shell.LoadReader(ctx, "stdin", os.Stdin)
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	page := tui.NewHistogramPage(ctx, shell, pageOpts)
	app := tui.NewApp(page)

	p := tea.NewProgram(app, programOpts...)
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
