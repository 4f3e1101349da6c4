package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/httpserver"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the histogram web UI",
		Long:  `serve starts a local web page where chat logs can be uploaded and charted. An optional file is loaded before the server starts.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			return runServer(cmd.Context(), cfg, args)
		},
	}

	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "override listen-addr")
	return cmd
}

// runServer serves the web UI until SIGINT or SIGTERM.
func runServer(parent context.Context, cfg appConfig, args []string) error {
	cleanupLogger := configureRuntimeLogger(cfg.LogFile)
	defer cleanupLogger()

	shell := appshell.New(cfg.shellConfig())
	if len(args) == 1 {
		shell.LoadFile(parent, args[0])
	}

	srv := httpserver.NewServer(cfg.ListenAddr, shell, cfg.serverConfig())
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	log.Printf("httpserver: listening on %s", srv.Addr())

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printStartupBanner(cfg, srv.Addr(), shell.Current())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down gracefully...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if err := srv.Stop(); err != nil {
			return fmt.Errorf("stopping web server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
		return err
	}
	log.Printf("httpserver: stopped")
	return nil
}

func printStartupBanner(cfg appConfig, addr string, st appshell.State) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	violet := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C5CFF"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	ver := dim.Render("v" + version)
	separator := dim.Render("    ─────────────────────────────────")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+violet.Bold(true).Render("chatstats")+"  "+ver)
	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Web UI"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Address        %s", check, violet.Render("http://"+addr)))
	lines = append(lines, fmt.Sprintf("    %s  Upload limit   %s", check, dim.Render(formatBytes(cfg.MaxUploadBytes))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Dataset"))
	lines = append(lines, "")
	switch st := st.(type) {
	case appshell.Results:
		lines = append(lines, fmt.Sprintf("    %s  Loaded         %s", check, dim.Render(fmt.Sprintf("%s (%d minutes)", shortenPath(st.Dataset.Source), len(st.Dataset.Stats)))))
	case appshell.Failed:
		lines = append(lines, fmt.Sprintf("    %s  Loaded         %s", dot, dim.Render(shortenPath(st.Source)+": "+st.Message)))
	default:
		lines = append(lines, fmt.Sprintf("    %s  Loaded         %s", dot, dim.Render("none (upload one in the browser)")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Log File       %s", check, dim.Render(shortenPath(cfg.LogFile))))

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
