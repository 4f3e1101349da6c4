package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/chatsource"
	"github.com/tinytelemetry/chatstats/internal/model"
	"gopkg.in/yaml.v3"
)

var errNoInput = errors.New("no input: pass a chat log file, or - to read stdin")

// report is the machine-readable shape of a loaded dataset.
type report struct {
	Source  string             `json:"source" yaml:"source"`
	Parsed  int                `json:"parsed" yaml:"parsed"`
	Skipped int                `json:"skipped" yaml:"skipped"`
	Summary model.Summary      `json:"summary" yaml:"summary"`
	Stats   []model.MinuteStat `json:"stats" yaml:"stats"`
}

func newReport(d model.Dataset) report {
	return report{
		Source:  d.Source,
		Parsed:  d.Parsed,
		Skipped: d.Skipped,
		Summary: d.Summary,
		Stats:   d.Stats,
	}
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report [file|-]",
		Short: "Print per-minute message counts",
		Long:  `report prints every minute between the first and last message with its count, followed by the total, the busiest minute and the average.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			cleanupLogger := configureRuntimeLogger(cfg.LogFile)
			defer cleanupLogger()

			d, err := loadDataset(cmd.Context(), appshell.New(cfg.shellConfig()), args)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), d, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	return cmd
}

// loadDataset loads the file named by args, or stdin for "-" or when a
// log is piped in without an argument. A load without buckets returns
// appshell.ErrNoValidLines.
func loadDataset(ctx context.Context, shell *appshell.Shell, args []string) (model.Dataset, error) {
	var st appshell.State
	switch {
	case len(args) == 1 && args[0] != "-":
		st = shell.LoadFile(ctx, args[0])
	case len(args) == 1 || chatsource.IsStdinPiped():
		st = shell.LoadReader(ctx, "stdin", os.Stdin)
	default:
		return model.Dataset{}, errNoInput
	}
	return appshell.DatasetOf(st)
}

func writeReport(w io.Writer, d model.Dataset, format string) error {
	switch format {
	case "table", "":
		writeTable(w, d)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(d))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(d)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func writeTable(w io.Writer, d model.Dataset) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Minute", "Messages"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.SetBorder(false)

	for _, s := range d.Stats {
		table.Append([]string{s.Label, strconv.Itoa(s.Count)})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(d.Summary.Total)})
	table.Render()

	fmt.Fprintf(w, "\nMax per minute: %d\n", d.Summary.Max)
	fmt.Fprintf(w, "Average:        %.2f\n", d.Summary.Avg)
	fmt.Fprintf(w, "Lines:          %d parsed, %d skipped\n", d.Parsed, d.Skipped)
}
