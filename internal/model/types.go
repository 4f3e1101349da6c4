package model

import "time"

// Message is one successfully parsed chat line.
// It only lives for the duration of an aggregation pass.
type Message struct {
	Timestamp time.Time // always UTC
	Author    string
	Text      string
}

// MinuteStat is the message count for one minute of the chat log.
type MinuteStat struct {
	MinuteStartTs int64  `json:"minuteStartTs" yaml:"minuteStartTs"` // ms since epoch, UTC, minute aligned
	Label         string `json:"label" yaml:"label"`                 // "YYYY-MM-DD HH:MM"
	Count         int    `json:"count" yaml:"count"`
}

// Start returns the bucket start as a UTC time.
func (s MinuteStat) Start() time.Time {
	return time.UnixMilli(s.MinuteStartTs).UTC()
}

// Summary holds totals derived from a MinuteStat series.
type Summary struct {
	Total int     `json:"total" yaml:"total"`
	Max   int     `json:"max" yaml:"max"`
	Avg   float64 `json:"avg" yaml:"avg"` // over every bucket, silent minutes included
}

// Dataset is the result of one successful load.
// It is replaced wholesale on the next load and never persisted.
type Dataset struct {
	ID       string       `json:"id" yaml:"id"`
	Source   string       `json:"source" yaml:"source"`
	LoadedAt time.Time    `json:"loadedAt" yaml:"loadedAt"`
	Stats    []MinuteStat `json:"stats" yaml:"stats"`
	Summary  Summary      `json:"summary" yaml:"summary"`
	Parsed   int          `json:"parsed" yaml:"parsed"`
	Skipped  int          `json:"skipped" yaml:"skipped"`
}
