package minify

import (
	"bytes"
	"fmt"
	"sync"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
	"go.uber.org/zap"
)

// Preset selects how aggressively Minify rewrites its input.
type Preset int

const (
	// PresetTopLevel runs tdewolff's JS minifier with its default
	// options. ReservedTopLevelNames is not passed to it (tdewolff/minify
	// has no per-identifier reserve list of its own), and the loader
	// declares those names with var inside its IIFE rather than as IIFE
	// parameters. See DESIGN.md for spec.md's identifier-protection open
	// question.
	PresetTopLevel Preset = iota
	// PresetMerge performs no minification: it is the formatting-only
	// pass spec.md describes for sources a later stage will concatenate
	// and minify as a whole.
	PresetMerge
)

// ReservedTopLevelNames lists the identifiers that the embedding page or
// the WA handshake contract references by their literal source name.
// Minify does not read this list.
var ReservedTopLevelNames = []string{
	"abort", "MU8", "MU16", "MU32", "MI32", "MF32",
	"STOP", "TEMP", "MStrPut", "MStrGet", "MArrPut",
	"ASM", "WM", "J", "N",
}

var (
	m        *tdminify.M
	initOnce sync.Once
)

func minifier() *tdminify.M {
	initOnce.Do(func() {
		m = tdminify.New()
		m.AddFunc("application/javascript", js.Minify)
	})
	return m
}

var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// Minify runs src through the configured preset and returns the result.
// PresetMerge is a pass-through; PresetTopLevel invokes tdewolff's JS
// minifier and wraps any failure in an Error carrying a source snippet.
func Minify(src string, preset Preset) (string, error) {
	if preset == PresetMerge {
		return src, nil
	}

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := minifier().Minify("application/javascript", buf, bytes.NewReader([]byte(src))); err != nil {
		mErr := newError(src, err)
		Logger().Warn("minification failed", zap.Error(mErr))
		return "", mErr
	}
	return buf.String(), nil
}

// Error is the rendering spec.md §7 asks of a fatal MinifierError: the
// underlying minifier error plus a ±3-line, caret-annotated snippet of
// the offending source.
type Error struct {
	Err     error
	Line    int
	Column  int
	Snippet string
}

func (e *Error) Error() string {
	return fmt.Sprintf("minify: %s (line %d, column %d)\n%s", e.Err, e.Line, e.Column, e.Snippet)
}

func (e *Error) Unwrap() error { return e.Err }

// newError extracts a line/column from tdewolff's error (it implements
// *parse.Error for most syntax failures) and renders a caret snippet.
func newError(src string, err error) *Error {
	line, col := 1, 1
	type lineColumner interface {
		Position() (int, int, string)
	}
	if lc, ok := err.(lineColumner); ok {
		line, col, _ = lc.Position()
	}
	return &Error{Err: err, Line: line, Column: col, Snippet: snippet(src, line, col)}
}

func snippet(src string, line, col int) string {
	lines := splitLines(src)
	lo := line - 4
	if lo < 0 {
		lo = 0
	}
	hi := line + 3
	if hi > len(lines) {
		hi = len(lines)
	}

	var b bytes.Buffer
	for i := lo; i < hi; i++ {
		fmt.Fprintf(&b, "%5d | %s\n", i+1, lines[i])
		if i+1 == line {
			b.WriteString("      | ")
			for j := 1; j < col; j++ {
				b.WriteByte(' ')
			}
			b.WriteString("^\n")
		}
	}
	return b.String()
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
