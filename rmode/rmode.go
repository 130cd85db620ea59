// Package rmode is the default engine for embedded R chunks. It only ever
// looks at rows of the chunk the request falls in.
package rmode

import (
	"regexp"
	"strings"

	"github.com/rubiojr/cindent/bracket"
	"github.com/rubiojr/cindent/document"
	"github.com/rubiojr/cindent/indent"
	"github.com/rubiojr/cindent/lexstate"
	"github.com/rubiojr/cindent/outdent"
	"github.com/rubiojr/cindent/scanner"
)

var (
	openEndRe     = regexp.MustCompile(`[{(\[]\s*$`)
	operatorEndRe = regexp.MustCompile(`([-+*/^|&=~<>!]|%[^%\s]*%)\s*$`)
	closeBraceRe  = regexp.MustCompile(`^\s*\}`)
)

// Model computes indentation inside R chunks and outdents closing braces.
type Model struct {
	braces outdent.BraceOutdent
}

// New returns a Model whose brace matching never leaves the chunk.
func New() *Model {
	return &Model{braces: outdent.BraceOutdent{Floor: ChunkStart}}
}

// ChunkStart returns the row of the chunk opener at or above row, or 0 when
// there is none.
func ChunkStart(lines []string, row int) int {
	if row >= len(lines) {
		row = len(lines) - 1
	}
	for i := row; i >= 0; i-- {
		if lexstate.ChunkOpener.MatchString(lines[i]) {
			return i
		}
	}
	return 0
}

// code returns line with any # comment removed, ignoring '#' inside
// strings and backtick names.
func code(line string) string {
	if i := scanner.CommentIndex(scanner.NewWithBackticks(line), "#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimRight(line, " \t")
}

func continues(line string) bool {
	return operatorEndRe.MatchString(code(line))
}

// NextLineIndent returns the indent for the line after req.Row, looking no
// further back than the chunk opener.
func (m *Model) NextLineIndent(req indent.Request) string {
	line := req.Line
	ind := document.LeadingWhitespace(line)
	if req.Row < 0 || req.Row >= len(req.Lines) {
		return ind
	}
	if req.Column >= 0 && req.Column < len(line) {
		line = line[:req.Column]
	}
	if lexstate.ChunkOpener.MatchString(line) {
		return ind
	}
	text := code(line)
	if strings.TrimSpace(text) == "" {
		return ind
	}

	if openEndRe.MatchString(text) {
		return ind + req.Tab
	}
	if pos := scanner.LastUnmatchedOpen(scanner.NewWithBackticks(text)); pos >= 0 && text[pos] != '{' {
		return strings.Repeat(" ", pos+1)
	}

	floor := ChunkStart(req.Lines, req.Row)
	prevContinues := req.Row > floor && continues(req.Lines[req.Row-1])
	if operatorEndRe.MatchString(text) {
		if prevContinues {
			return ind
		}
		return ind + req.Tab
	}

	if scanner.Depth(scanner.NewWithBackticks(text)) < 0 {
		if open := m.openerRow(req.Lines, req.Row, text, floor); open >= 0 {
			return m.statementIndent(req.Lines, open, floor)
		}
	}
	if prevContinues {
		return m.statementIndent(req.Lines, req.Row, floor)
	}
	return ind
}

// openerRow finds the row holding the opener of the last closing bracket
// in text, which stands in for the code of row.
func (m *Model) openerRow(lines []string, row int, text string, floor int) int {
	i := strings.LastIndexAny(text, ")]}")
	if i < 0 {
		return -1
	}
	probe := make([]string, 0, row-floor+1)
	for _, l := range lines[floor:row] {
		probe = append(probe, code(l))
	}
	probe = append(probe, text)
	found := bracket.FindMatchingRow(text[i], probe, row-floor, 0, bracket.Backward)
	if found == bracket.NotFound {
		return -1
	}
	return found + floor
}

// statementIndent walks back from row over lines continued by a trailing
// operator and returns the indentation of the first line of the statement.
func (m *Model) statementIndent(lines []string, row, floor int) string {
	for row > floor && continues(lines[row-1]) {
		row--
	}
	return document.LeadingWhitespace(lines[row])
}

// CheckOutdent reports whether a closing brace typed on a blank line
// should outdent.
func (m *Model) CheckOutdent(state, line, input string) bool {
	return closeBraceRe.MatchString(input) && m.braces.CheckOutdent(line, input)
}

// AutoOutdent aligns a leading } with its opener inside the chunk.
func (m *Model) AutoOutdent(state string, doc document.Document, row int) error {
	if !closeBraceRe.MatchString(doc.Line(row)) {
		return nil
	}
	return m.braces.AutoOutdent(doc, row)
}
