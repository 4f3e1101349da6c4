package appshell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tinytelemetry/chatstats/internal/chatsource"
	"github.com/tinytelemetry/chatstats/internal/model"
)

var twoMinutes = []string{
	"[2025-10-20 02:57:56 UTC] alice: hi",
	"[2025-10-20 02:58:10 UTC] bob: yo",
}

func TestShell_StartsEmpty(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	if _, ok := s.Current().(Empty); !ok {
		t.Fatalf("initial state = %T, want Empty", s.Current())
	}
	if _, ok := s.Dataset(); ok {
		t.Error("Empty shell should not expose a dataset")
	}
}

func TestShell_LoadResults(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	st := s.Load("a.txt", twoMinutes)

	r, ok := st.(Results)
	if !ok {
		t.Fatalf("state = %T, want Results", st)
	}
	d := r.Dataset
	if len(d.Stats) != 2 {
		t.Errorf("buckets = %d, want 2", len(d.Stats))
	}
	if d.Summary != (model.Summary{Total: 2, Max: 1, Avg: 1.0}) {
		t.Errorf("summary = %+v, want total=2 max=1 avg=1", d.Summary)
	}
	if d.Source != "a.txt" || d.ID == "" {
		t.Errorf("dataset source/id = %q/%q", d.Source, d.ID)
	}
	if st.Name() != "results" {
		t.Errorf("Name = %q, want results", st.Name())
	}
}

func TestShell_MalformedOnlyFails(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	s.Load("a.txt", twoMinutes)
	st := s.Load("bad.txt", []string{"nothing here", "[x] y"})

	f, ok := st.(Failed)
	if !ok {
		t.Fatalf("state = %T, want Failed", st)
	}
	if f.Message != model.NoValidLinesMessage {
		t.Errorf("message = %q, want %q", f.Message, model.NoValidLinesMessage)
	}
	if _, ok := s.Dataset(); ok {
		t.Error("dataset should be unset after a failed load")
	}
	if _, err := DatasetOf(st); !errors.Is(err, ErrNoValidLines) {
		t.Errorf("DatasetOf error = %v, want ErrNoValidLines", err)
	}
}

func TestShell_ReloadReplacesDataset(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	first := s.Load("a.txt", twoMinutes)
	second := s.Load("b.txt", []string{
		"[2025-10-21 10:00:00 UTC] carol: one",
		"[2025-10-21 10:00:30 UTC] dave: two",
		"[2025-10-21 10:00:45 UTC] erin: three",
	})

	d, ok := s.Dataset()
	if !ok {
		t.Fatal("expected Results after second load")
	}
	if d.Source != "b.txt" {
		t.Errorf("source = %q, want b.txt", d.Source)
	}
	if len(d.Stats) != 1 || d.Stats[0].Label != "2025-10-21 10:00" || d.Stats[0].Count != 3 {
		t.Errorf("stats = %+v, want single 10:00 bucket with 3", d.Stats)
	}
	if d.Summary.Total != 3 || d.Summary.Max != 3 {
		t.Errorf("summary = %+v, want total=3 max=3", d.Summary)
	}
	if first.(Results).Dataset.ID == second.(Results).Dataset.ID {
		t.Error("each load should get a fresh dataset ID")
	}
}

func TestShell_LoadText(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	st := s.LoadText("paste", strings.Join(twoMinutes, "\r\n")+"\r\n\r\n")
	d, err := DatasetOf(st)
	if err != nil {
		t.Fatalf("DatasetOf: %v", err)
	}
	if d.Parsed != 2 || d.Skipped != 0 {
		t.Errorf("parsed/skipped = %d/%d, want 2/0", d.Parsed, d.Skipped)
	}
}

func TestShell_LoadReader_BinaryFails(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	png := strings.NewReader("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR" + strings.Repeat("\x00", 64))
	st := s.LoadReader(context.Background(), "image.png", png)
	if _, ok := st.(Failed); !ok {
		t.Fatalf("state = %T, want Failed", st)
	}
}

func TestShell_LoadReader_EmptyFails(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	st := s.LoadReader(context.Background(), "empty.txt", strings.NewReader(""))
	if f, ok := st.(Failed); !ok || f.Message != model.NoValidLinesMessage {
		t.Fatalf("state = %#v, want Failed with fixed message", st)
	}
}

func TestShell_LoadReader_OversizedLineIsSkipped(t *testing.T) {
	t.Parallel()

	s := New(Config{Source: chatsource.Config{MaxLineSize: 64}})
	input := twoMinutes[0] + "\n" + strings.Repeat("x", 4096) + "\n" + twoMinutes[1] + "\n"
	st := s.LoadReader(context.Background(), "big.txt", strings.NewReader(input))

	d, err := DatasetOf(st)
	if err != nil {
		t.Fatalf("state = %s, want results", st.Name())
	}
	if len(d.Stats) != 2 {
		t.Errorf("buckets = %d, want 2", len(d.Stats))
	}
	if d.Parsed != 2 || d.Skipped != 1 {
		t.Errorf("parsed/skipped = %d/%d, want 2/1", d.Parsed, d.Skipped)
	}
}

func TestShell_LoadReader_LongMessageStillCounts(t *testing.T) {
	t.Parallel()

	s := New(Config{Source: chatsource.Config{MaxLineSize: 64}})
	long := "[2025-10-20 02:57:56 UTC] alice: " + strings.Repeat("blah ", 1000)
	d, err := DatasetOf(s.LoadReader(context.Background(), "long.txt", strings.NewReader(long+"\n")))
	if err != nil {
		t.Fatalf("DatasetOf: %v", err)
	}
	if d.Summary.Total != 1 {
		t.Errorf("total = %d, want 1", d.Summary.Total)
	}
}

func TestShell_LoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte(strings.Join(twoMinutes, "\n")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New(Config{})
	if _, ok := s.LoadFile(context.Background(), path).(Results); !ok {
		t.Fatalf("state = %T, want Results", s.Current())
	}
	if _, ok := s.LoadFile(context.Background(), path+".missing").(Failed); !ok {
		t.Fatalf("missing file state = %T, want Failed", s.Current())
	}
}

func TestShell_ResetAndApply(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	s.Load("a.txt", twoMinutes)
	s.Reset()
	if _, ok := s.Current().(Empty); !ok {
		t.Fatalf("state after Reset = %T, want Empty", s.Current())
	}

	st := Evaluate(nil, "a.txt", twoMinutes, model.Dataset{}.LoadedAt)
	s.Apply(st)
	if _, ok := s.Dataset(); !ok {
		t.Error("Apply(Results) should expose the dataset")
	}
	s.Apply(nil)
	if _, ok := s.Current().(Empty); !ok {
		t.Errorf("Apply(nil) state = %T, want Empty", s.Current())
	}
}

func TestShell_ConcurrentLoads(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load("a.txt", twoMinutes)
			_ = s.Current()
		}()
	}
	wg.Wait()

	if _, ok := s.Current().(Results); !ok {
		t.Fatalf("state = %T, want Results", s.Current())
	}
}

func TestShell_EvaluateFileLeavesStateAlone(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte(strings.Join(twoMinutes, "\n")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New(Config{})
	st := s.EvaluateFile(context.Background(), path)
	if _, ok := st.(Results); !ok {
		t.Fatalf("EvaluateFile = %T, want Results", st)
	}
	if _, ok := s.Current().(Empty); !ok {
		t.Errorf("state after EvaluateFile = %T, want Empty", s.Current())
	}
}
