// Package appshell owns the one dataset currently on display and the
// Empty/Error/Results state machine around it.
package appshell

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tinytelemetry/chatstats/internal/aggregate"
	"github.com/tinytelemetry/chatstats/internal/chatsource"
	"github.com/tinytelemetry/chatstats/internal/model"
)

// ErrNoValidLines is returned by Dataset-oriented helpers when a load
// produced zero buckets.
var ErrNoValidLines = errors.New(model.NoValidLinesMessage)

// Config holds tunable parameters for loads.
type Config struct {
	Source chatsource.Config
}

// Shell holds the current State. Loads replace it atomically; concurrent
// loads resolve last-write-wins. Safe for concurrent use.
type Shell struct {
	mu    sync.RWMutex
	state State
	agg   *aggregate.Aggregator
	conf  Config
	now   func() time.Time
}

// New creates a Shell in the Empty state.
func New(conf Config) *Shell {
	return &Shell{
		state: Empty{},
		agg:   aggregate.New(nil),
		conf:  conf,
		now:   time.Now,
	}
}

// Current returns the current state.
func (s *Shell) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dataset returns the current dataset when in the Results state.
func (s *Shell) Dataset() (model.Dataset, bool) {
	if r, ok := s.Current().(Results); ok {
		return r.Dataset, true
	}
	return model.Dataset{}, false
}

// Reset returns to Empty.
func (s *Shell) Reset() {
	s.set(Empty{})
}

// Apply replaces the state with one computed by Evaluate.
func (s *Shell) Apply(st State) {
	if st == nil {
		st = Empty{}
	}
	s.set(st)
	logLoad(st)
}

// Load aggregates already split lines from source and replaces the state.
func (s *Shell) Load(source string, lines []string) State {
	next := Evaluate(s.agg, source, lines, s.now())
	s.Apply(next)
	return next
}

// LoadText splits text on line breaks and loads it.
func (s *Shell) LoadText(source, text string) State {
	return s.Load(source, chatsource.SplitLines(text))
}

// LoadReader reads r to the end and loads it.
func (s *Shell) LoadReader(ctx context.Context, source string, r io.Reader) State {
	next := s.EvaluateReader(ctx, source, r)
	s.Apply(next)
	return next
}

// LoadFile reads and loads the chat log at path.
func (s *Shell) LoadFile(ctx context.Context, path string) State {
	next := s.EvaluateFile(ctx, path)
	s.Apply(next)
	return next
}

// EvaluateReader reads r and returns the state a load would lead to,
// leaving the current state alone. Non-text input and read failures end
// in the same Failed state as a file without valid lines.
func (s *Shell) EvaluateReader(ctx context.Context, source string, r io.Reader) State {
	r, isText, err := chatsource.Sniff(r)
	if err != nil {
		log.Printf("appshell: reading %s: %v", source, err)
		return failed(source)
	}
	if !isText {
		log.Printf("appshell: %s is not a text file", source)
		return failed(source)
	}

	lines, err := chatsource.ReadLines(ctx, r, s.conf.Source)
	if err != nil {
		log.Printf("appshell: reading %s: %v", source, err)
		return failed(source)
	}
	return Evaluate(s.agg, source, lines, s.now())
}

// EvaluateFile is EvaluateReader for the file at path.
func (s *Shell) EvaluateFile(ctx context.Context, path string) State {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("appshell: opening %s: %v", path, err)
		return failed(path)
	}
	defer f.Close()
	return s.EvaluateReader(ctx, path, f)
}

func failed(source string) State {
	return Failed{Source: source, Message: model.NoValidLinesMessage}
}

func (s *Shell) set(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Evaluate computes the state a load of lines leads to without touching any
// Shell. The TUI uses it to build states off the UI goroutine.
func Evaluate(agg *aggregate.Aggregator, source string, lines []string, at time.Time) State {
	if agg == nil {
		agg = aggregate.New(nil)
	}
	res := agg.Run(lines)
	if res.Empty() {
		return failed(source)
	}
	return Results{Dataset: model.Dataset{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: at,
		Stats:    res.Stats,
		Summary:  aggregate.Summarize(res.Stats),
		Parsed:   res.Parsed,
		Skipped:  res.Skipped,
	}}
}

// DatasetOf returns the dataset held by st or ErrNoValidLines.
func DatasetOf(st State) (model.Dataset, error) {
	if r, ok := st.(Results); ok {
		return r.Dataset, nil
	}
	return model.Dataset{}, ErrNoValidLines
}

func logLoad(st State) {
	switch st := st.(type) {
	case Results:
		d := st.Dataset
		log.Printf("appshell: loaded %s: %d parsed, %d skipped, %d buckets", d.Source, d.Parsed, d.Skipped, len(d.Stats))
	case Failed:
		log.Printf("appshell: loaded %s: %s", st.Source, st.Message)
	}
}
