package appshell

import "github.com/tinytelemetry/chatstats/internal/model"

// State is one of Empty, Failed or Results.
type State interface {
	// Name is "empty", "error" or "results".
	Name() string
	isState()
}

// Empty is the initial state: nothing has been loaded.
type Empty struct{}

// Failed means the last load produced no buckets. No dataset is held.
type Failed struct {
	Source  string
	Message string
}

// Results holds the dataset of the last successful load.
type Results struct {
	Dataset model.Dataset
}

func (Empty) Name() string   { return "empty" }
func (Failed) Name() string  { return "error" }
func (Results) Name() string { return "results" }

func (Empty) isState()   {}
func (Failed) isState()  {}
func (Results) isState() {}
