package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/chatsource"
	"github.com/tinytelemetry/chatstats/internal/model"
	"gopkg.in/yaml.v3"
)

const sampleLog = "[2025-10-20 02:57:56 UTC] alice: hello\n" +
	"[2025-10-20 02:57:59 UTC] bob: hi\n" +
	"not a chat line\n" +
	"[2025-10-20 02:59:10 UTC] alice: still here?\n"

func sampleDataset(t *testing.T) model.Dataset {
	t.Helper()
	d, err := appshell.DatasetOf(appshell.New(appshell.Config{}).LoadText("chat.txt", sampleLog))
	if err != nil {
		t.Fatalf("DatasetOf: %v", err)
	}
	return d
}

func TestWriteReport_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeReport(&buf, sampleDataset(t), "table"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"MINUTE", "2025-10-20 02:57", "2025-10-20 02:58", "TOTAL", "Max per minute: 2", "Average:        1.00", "3 parsed, 1 skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReport_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeReport(&buf, sampleDataset(t), "json"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	var got report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Stats) != 3 || got.Stats[1].Count != 0 {
		t.Errorf("stats = %+v, want 3 minutes with an empty middle", got.Stats)
	}
	if got.Summary.Total != 3 || got.Summary.Max != 2 {
		t.Errorf("summary = %+v, want total 3 max 2", got.Summary)
	}
	if got.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", got.Skipped)
	}
}

func TestWriteReport_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeReport(&buf, sampleDataset(t), "yaml"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	var got report
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Source != "chat.txt" || len(got.Stats) != 3 {
		t.Errorf("report = %+v, want chat.txt with 3 minutes", got)
	}
	if got.Stats[0].Label != "2025-10-20 02:57" {
		t.Errorf("first label = %q, want 2025-10-20 02:57", got.Stats[0].Label)
	}
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := writeReport(&bytes.Buffer{}, sampleDataset(t), "xml"); err == nil {
		t.Error("writeReport(xml) should fail")
	}
}

func TestLoadDataset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shell := appshell.New(appshell.Config{})

	d, err := loadDataset(context.Background(), shell, []string{writeFile(t, dir, "chat.txt", sampleLog)})
	if err != nil {
		t.Fatalf("loadDataset: %v", err)
	}
	if d.Summary.Total != 3 {
		t.Errorf("total = %d, want 3", d.Summary.Total)
	}

	_, err = loadDataset(context.Background(), shell, []string{writeFile(t, dir, "notes.txt", "nothing here\n")})
	if !errors.Is(err, appshell.ErrNoValidLines) {
		t.Errorf("loadDataset error = %v, want ErrNoValidLines", err)
	}
	if err != nil && err.Error() != model.NoValidLinesMessage {
		t.Errorf("error text = %q, want %q", err.Error(), model.NoValidLinesMessage)
	}
}

func TestLoadDataset_NoInput(t *testing.T) {
	if chatsource.IsStdinPiped() {
		t.Skip("stdin is piped")
	}
	_, err := loadDataset(context.Background(), appshell.New(appshell.Config{}), nil)
	if !errors.Is(err, errNoInput) {
		t.Errorf("loadDataset error = %v, want errNoInput", err)
	}
}

func TestReportCommand_JSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeFile(t, t.TempDir(), "chat.txt", sampleLog)

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"report", path, "--format", "json"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("report: %v", err)
	}

	var got report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out.String())
	}
	if got.Summary.Total != 3 {
		t.Errorf("total = %d, want 3", got.Summary.Total)
	}
}

func TestReportCommand_NoValidLines(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeFile(t, t.TempDir(), "notes.txt", "nothing here\n")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"report", path})
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, appshell.ErrNoValidLines) {
		t.Errorf("report error = %v, want ErrNoValidLines", err)
	}
}
