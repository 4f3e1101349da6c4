package model

// Shared defaults used by the CLI, the web UI and the terminal UI.
const (
	DefaultListenAddr     = "127.0.0.1:3000"
	DefaultMaxLineSize    = 1024 * 1024      // 1MB
	DefaultMaxUploadBytes = 32 * 1024 * 1024 // 32MB
	DefaultChartWidth     = 800
	DefaultChartHeight    = 280

	// MinuteMillis is the width of one bucket.
	MinuteMillis int64 = 60_000

	// LabelLayout renders a minute start as "YYYY-MM-DD HH:MM".
	LabelLayout = "2006-01-02 15:04"

	// NoValidLinesMessage is shown whenever a load yields zero buckets.
	NoValidLinesMessage = "no valid lines found in file"
)
