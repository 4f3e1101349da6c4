// Package timestamp turns the free-form timestamps found in chat log
// brackets into UTC instants.
package timestamp

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// zoneTokens are trailing zone names that resolve to UTC.
var zoneTokens = []string{" UTC", " GMT", " Z"}

// calendarWords are the alphabetic tokens a timestamp may carry besides a
// UTC zone name. Any other 3 to 5 letter word is taken to be a zone.
var calendarWords = map[string]bool{
	"UTC": true, "GMT": true,
	"JAN": true, "FEB": true, "MAR": true, "APR": true, "MAY": true, "JUN": true,
	"JUL": true, "AUG": true, "SEP": true, "SEPT": true, "OCT": true, "NOV": true,
	"DEC": true, "MARCH": true, "APRIL": true, "JUNE": true, "JULY": true,
	"MON": true, "TUE": true, "TUES": true, "WED": true, "THU": true, "THUR": true,
	"THURS": true, "FRI": true, "SAT": true, "SUN": true,
}

// defaultLayouts are tried in order before the general-purpose fallback.
// Inputs without an explicit offset are read as UTC.
var defaultLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
}

// Parser resolves timestamp strings. Safe for concurrent use.
type Parser struct {
	layouts []string
}

// NewParser creates a Parser with the default layout list.
func NewParser() *Parser {
	return &Parser{layouts: defaultLayouts}
}

// ParseTimestamp parses value and returns the instant in UTC.
// It returns false when value cannot be read as a date and time, or when it
// names a zone other than UTC. Numeric offsets are honoured.
func (p *Parser) ParseTimestamp(value string) (time.Time, bool) {
	raw := strings.TrimSpace(value)
	if raw == "" || namesForeignZone(raw) {
		return time.Time{}, false
	}

	s := stripZoneToken(raw)
	for _, layout := range p.layouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}

	ts, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

// stripZoneToken removes a trailing UTC/GMT token so the remaining text can
// be matched against zone-less layouts in the UTC location.
func stripZoneToken(s string) string {
	upper := strings.ToUpper(s)
	for _, tok := range zoneTokens {
		if strings.HasSuffix(upper, tok) {
			return strings.TrimSpace(s[:len(s)-len(tok)])
		}
	}
	return s
}

// namesForeignZone reports whether s carries a zone abbreviation such as
// PST or CEST. Those would otherwise parse with a zero offset.
func namesForeignZone(s string) bool {
	for _, tok := range strings.Fields(s) {
		tok = strings.ToUpper(strings.Trim(tok, ",.()"))
		if len(tok) < 3 || len(tok) > 5 || !isLetters(tok) {
			continue
		}
		if !calendarWords[tok] {
			return true
		}
	}
	return false
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
