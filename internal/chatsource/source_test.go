package chatsource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadLines_DropsBlankLines(t *testing.T) {
	t.Parallel()

	input := "[2025-10-20 02:57:56 UTC] alice: hi\r\n\r\n\n[2025-10-20 02:58:10 UTC] bob: yo\n"
	lines, err := ReadLines(context.Background(), strings.NewReader(input), Config{})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	want := []string{
		"[2025-10-20 02:57:56 UTC] alice: hi",
		"[2025-10-20 02:58:10 UTC] bob: yo",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestReadLines_TruncatesLongLines(t *testing.T) {
	t.Parallel()

	input := "first\n" + strings.Repeat("x", 64) + "\r\nlast\n"
	lines, err := ReadLines(context.Background(), strings.NewReader(input), Config{MaxLineSize: 16})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	want := []string{"first", strings.Repeat("x", 16), "last"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestReadLines_LastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	lines, err := ReadLines(context.Background(), strings.NewReader("one\r\ntwo"), Config{})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if want := []string{"one", "two"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestReadLines_CancelledContext(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ReadLines(ctx, r, Config{}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n\nthree"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lines, err := ReadFile(context.Background(), path, Config{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}

	if _, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), Config{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"\n\n", []string{}},
		{"a\r\nb\nc", []string{"a", "b", "c"}},
		{"a\n \nb", []string{"a", " ", "b"}},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsText(t *testing.T) {
	t.Parallel()

	if !IsText(nil) {
		t.Error("empty input should count as text")
	}
	if !IsText([]byte("[2025-10-20 02:57:56 UTC] alice: hi\n[2025-10-20 02:58:10 UTC] bob: yo\n")) {
		t.Error("chat log should be detected as text")
	}
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	if IsText(png) {
		t.Error("PNG header should not be detected as text")
	}
}

func TestSniff_PreservesStream(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("[2025-10-20 02:57:56 UTC] alice: hi\n", 200)
	r, isText, err := Sniff(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if !isText {
		t.Error("Sniff should report text")
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != input {
		t.Errorf("Sniff lost data: got %d bytes, want %d", len(got), len(input))
	}
}

func TestReadStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.txt")
	if err := os.WriteFile(path, []byte("one\n\ntwo\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	orig := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = orig }()

	if !IsStdinPiped() {
		t.Error("a regular file on stdin should count as piped")
	}
	lines, err := ReadStdin(context.Background(), Config{})
	if err != nil {
		t.Fatalf("ReadStdin: %v", err)
	}
	if want := []string{"one", "two"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}
