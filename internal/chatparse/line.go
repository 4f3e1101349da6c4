// Package chatparse recognises chat log lines of the form
//
//	[<timestamp>] <author>: <text>
package chatparse

import (
	"regexp"
	"strings"

	"github.com/tinytelemetry/chatstats/internal/model"
	"github.com/tinytelemetry/chatstats/internal/timestamp"
)

// LineRegex matches one chat line. Groups: timestamp, author, text.
// The author runs up to the first colon after the bracket.
var LineRegex = regexp.MustCompile(`^\s*\[(.+?)\]\s+([^:]+):\s*(.*)$`)

// Parser turns raw lines into messages.
type Parser struct {
	ts *timestamp.Parser
}

// New creates a Parser using ts for the bracketed timestamp.
// A nil ts uses timestamp.NewParser().
func New(ts *timestamp.Parser) *Parser {
	if ts == nil {
		ts = timestamp.NewParser()
	}
	return &Parser{ts: ts}
}

// Parse returns the message on line, or false when the line does not have
// the chat shape or its timestamp cannot be read. It never fails otherwise.
func (p *Parser) Parse(line string) (model.Message, bool) {
	m := LineRegex.FindStringSubmatch(line)
	if m == nil {
		return model.Message{}, false
	}

	ts, ok := p.ts.ParseTimestamp(m[1])
	if !ok {
		return model.Message{}, false
	}

	// Whitespace-only authors are kept; the pattern is the only check.
	return model.Message{
		Timestamp: ts,
		Author:    strings.TrimSpace(m[2]),
		Text:      strings.TrimSpace(m[3]),
	}, true
}

var defaultParser = New(nil)

// ParseLine parses line with the package default Parser.
func ParseLine(line string) (model.Message, bool) {
	return defaultParser.Parse(line)
}
