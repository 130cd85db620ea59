// Package document defines the host buffer the indentation engine reads and
// the two narrow mutation points it is allowed to use.
package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRowOutOfRange is returned by mutating operations addressing a row the
// buffer does not have.
var ErrRowOutOfRange = errors.New("row out of range")

// Position is a zero-based row/column pair. Columns are byte offsets.
type Position struct {
	Row    int
	Column int
}

// Range spans Start (inclusive) to End (exclusive).
type Range struct {
	Start Position
	End   Position
}

// LineRange returns the range covering columns [from, to) of row.
func LineRange(row, from, to int) Range {
	return Range{Start: Position{row, from}, End: Position{row, to}}
}

// Document is the host-owned line buffer.
type Document interface {
	// Line returns the text of row, or "" when row is outside the buffer.
	Line(row int) string
	// Lines returns a snapshot of every line. Callers must not modify it.
	Lines() []string
	// Len returns the number of lines.
	Len() int
	// Replace swaps the text in r for text as one undoable step.
	Replace(r Range, text string) error
	// IndentRows prefixes every row in [startRow, endRow] with marker.
	IndentRows(startRow, endRow int, marker string) error
}

// Buffer is an in-memory Document. The zero value is an empty buffer.
type Buffer struct {
	lines []string
	edits int
}

// NewBuffer creates a buffer holding a copy of lines.
func NewBuffer(lines []string) *Buffer {
	return &Buffer{lines: append([]string(nil), lines...)}
}

// FromString splits text on newlines. A trailing newline does not produce an
// extra empty row.
func FromString(text string) *Buffer {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return &Buffer{lines: []string{""}}
	}
	return &Buffer{lines: strings.Split(text, "\n")}
}

// Line returns row, or "" when row is outside the buffer.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return b.lines[row]
}

// Lines returns the rows. The slice is shared with the buffer.
func (b *Buffer) Lines() []string { return b.lines }

// Len returns the number of rows.
func (b *Buffer) Len() int { return len(b.lines) }

// Edits returns how many mutating calls have been applied. Each Replace and
// each IndentRows counts once, matching one undo step in an editor.
func (b *Buffer) Edits() int { return b.edits }

// String joins the buffer with newlines and a trailing newline.
func (b *Buffer) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// Replace swaps the text in r for text, which may span several lines.
func (b *Buffer) Replace(r Range, text string) error {
	start, end := r.Start, r.End
	if err := b.checkPos(start); err != nil {
		return fmt.Errorf("replace start: %w", err)
	}
	if err := b.checkPos(end); err != nil {
		return fmt.Errorf("replace end: %w", err)
	}
	if end.Row < start.Row || (end.Row == start.Row && end.Column < start.Column) {
		return fmt.Errorf("replace: end %d:%d before start %d:%d", end.Row, end.Column, start.Row, start.Column)
	}

	head := b.lines[start.Row][:start.Column]
	tail := b.lines[end.Row][end.Column:]
	repl := strings.Split(head+text+tail, "\n")

	lines := make([]string, 0, len(b.lines)-(end.Row-start.Row)+len(repl)-1)
	lines = append(lines, b.lines[:start.Row]...)
	lines = append(lines, repl...)
	lines = append(lines, b.lines[end.Row+1:]...)
	b.lines = lines
	b.edits++
	return nil
}

// IndentRows prefixes every row in [startRow, endRow] with marker.
func (b *Buffer) IndentRows(startRow, endRow int, marker string) error {
	if startRow < 0 || endRow >= len(b.lines) || startRow > endRow {
		return fmt.Errorf("indent rows %d..%d: %w", startRow, endRow, ErrRowOutOfRange)
	}
	for i := startRow; i <= endRow; i++ {
		b.lines[i] = marker + b.lines[i]
	}
	b.edits++
	return nil
}

func (b *Buffer) checkPos(p Position) error {
	if p.Row < 0 || p.Row >= len(b.lines) {
		return fmt.Errorf("%d: %w", p.Row, ErrRowOutOfRange)
	}
	if p.Column < 0 || p.Column > len(b.lines[p.Row]) {
		return fmt.Errorf("column %d outside row %d (length %d)", p.Column, p.Row, len(b.lines[p.Row]))
	}
	return nil
}

// LeadingWhitespace returns the run of blanks that starts line.
func LeadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
