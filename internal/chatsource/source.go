// Package chatsource obtains the text of a chat log and splits it into lines.
package chatsource

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tinytelemetry/chatstats/internal/model"
)

// SniffLen is how many leading bytes are inspected to decide whether an
// input is text.
const SniffLen = 3072

// Config holds tunable parameters for reading.
type Config struct {
	MaxLineSize int // bytes; lines longer than this fail the read
}

func (c Config) maxLineSize() int {
	if c.MaxLineSize > 0 {
		return c.MaxLineSize
	}
	return model.DefaultMaxLineSize
}

// ReadLines reads r to the end and returns its non-empty lines with the
// line terminator (\n or \r\n) removed. A line longer than MaxLineSize is
// cut to its first MaxLineSize bytes and the rest of it is discarded, so one
// oversized line never fails the whole read.
func ReadLines(ctx context.Context, r io.Reader, conf Config) ([]string, error) {
	maxLineSize := conf.maxLineSize()
	br := bufio.NewReaderSize(r, maxLineSize)

	// Read in one goroutine so a blocked read does not hold up cancellation.
	type readResult struct {
		lines []string
		err   error
	}
	done := make(chan readResult, 1)
	go func() {
		var lines []string
		for {
			if ctx.Err() != nil {
				done <- readResult{err: ctx.Err()}
				return
			}
			line, err := readLine(br, maxLineSize)
			if line != "" {
				lines = append(lines, line)
			}
			if errors.Is(err, io.EOF) {
				done <- readResult{lines: lines}
				return
			}
			if err != nil {
				done <- readResult{err: err}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.lines, res.err
	}
}

// readLine returns the next line without its terminator, keeping at most
// limit bytes of it. io.EOF is only returned once no line is left.
func readLine(br *bufio.Reader, limit int) (string, error) {
	chunk, isPrefix, err := br.ReadLine()
	if err != nil {
		return "", err
	}
	line := string(chunk[:min(len(chunk), limit)])
	if isPrefix {
		log.Printf("chatsource: line longer than %d bytes truncated", limit)
	}
	for isPrefix {
		_, isPrefix, err = br.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(line, "\r"), nil
}

// ReadFile reads the chat log at path.
func ReadFile(ctx context.Context, path string, conf Config) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(ctx, f, conf)
}

// ReadStdin reads the chat log piped on stdin.
func ReadStdin(ctx context.Context, conf Config) ([]string, error) {
	return ReadLines(ctx, os.Stdin, conf)
}

// SplitLines splits in-memory text on \r?\n and drops empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// IsText reports whether sample looks like plain text. Empty samples count
// as text so that empty files reach the normal "no valid lines" path.
func IsText(sample []byte) bool {
	if len(sample) == 0 {
		return true
	}
	if len(sample) > SniffLen {
		sample = sample[:SniffLen]
	}
	for m := mimetype.Detect(sample); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Sniff peeks at the head of r and reports whether it is text. The returned
// reader yields the complete original stream.
func Sniff(r io.Reader) (io.Reader, bool, error) {
	head := make([]byte, SniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, false, err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), IsText(head), nil
}

// IsStdinPiped reports whether stdin is a pipe or file rather than a terminal.
func IsStdinPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
