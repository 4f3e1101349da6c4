package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/histogram"
	"github.com/tinytelemetry/chatstats/internal/model"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export [file|-] -o chart.svg",
		Short: "Render the histogram to an SVG or PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			cleanupLogger := configureRuntimeLogger(cfg.LogFile)
			defer cleanupLogger()

			chartFormat, err := exportFormat(format, output)
			if err != nil {
				return err
			}

			d, err := loadDataset(cmd.Context(), appshell.New(cfg.shellConfig()), args)
			if err != nil {
				return err
			}
			if err := exportChart(output, chartFormat, d, cfg.geometry()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d minutes, %d messages)\n", shortenPath(output), len(d.Stats), d.Summary.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write")
	cmd.Flags().StringVar(&format, "format", "", "svg or png (default from the output extension)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// exportFormat resolves the chart format from the flag or, when empty, the
// output file extension.
func exportFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "svg", "png":
		return format, nil
	case "":
		return "", fmt.Errorf("cannot infer format from %q: pass --format svg or png", output)
	default:
		return "", fmt.Errorf("unknown format %q (want svg or png)", format)
	}
}

// exportChart renders d fully before touching path so a failed render
// leaves no partial file behind.
func exportChart(path, format string, d model.Dataset, g histogram.Geometry) error {
	var buf bytes.Buffer
	switch format {
	case "svg":
		opts := histogram.DefaultSVGOptions
		opts.Standalone = true
		if err := histogram.WriteSVG(&buf, histogram.Build(d.Stats, g), opts); err != nil {
			return fmt.Errorf("rendering svg: %w", err)
		}
	case "png":
		if err := histogram.WritePNG(&buf, d.Stats, g); err != nil {
			return fmt.Errorf("rendering png: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
