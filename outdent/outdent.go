// Package outdent implements reactive outdenting: after the host inserts a
// character that closes a construct, the line it sits on is moved back to
// the indentation of whatever it closes.
package outdent

import (
	"regexp"

	"github.com/rubiojr/cindent/bracket"
	"github.com/rubiojr/cindent/document"
)

// Strategy decides whether typing input on line warrants an outdent and
// performs it. AutoOutdent applies at most one Replace.
type Strategy interface {
	CheckOutdent(line, input string) bool
	AutoOutdent(doc document.Document, row int) error
}

var (
	blankRe       = regexp.MustCompile(`^\s+$`)
	closeBraceRe  = regexp.MustCompile(`^\s*\}`)
	leadingCloser = regexp.MustCompile(`^(\s*\})`)
	directiveRe   = regexp.MustCompile(`^(\s+)#`)
	accessLabelRe = regexp.MustCompile(`^(\s*)(public|private|protected)\s*:`)
	classOpenRe   = regexp.MustCompile(`^\s*(class|struct)\b`)
)

// BraceOutdent is the primary-language strategy. It reacts to a closing
// brace, to the '#' of a preprocessor directive, and to the ':' that
// completes an access label.
type BraceOutdent struct {
	// Floor, when set, returns the first row the opening-brace search may
	// look at. Rows above it are never counted.
	Floor func(lines []string, row int) int
}

// CheckOutdent reports whether typing input on line needs AutoOutdent.
func (BraceOutdent) CheckOutdent(line, input string) bool {
	switch {
	case input == "#":
		return line == "" || blankRe.MatchString(line)
	case input == ":":
		return accessLabelRe.MatchString(line + input)
	default:
		if !blankRe.MatchString(line) {
			return false
		}
		return closeBraceRe.MatchString(input)
	}
}

// AutoOutdent rewrites the leading whitespace of row. Rows that start with
// none of }, # or an access label are left alone.
func (b BraceOutdent) AutoOutdent(doc document.Document, row int) error {
	line := doc.Line(row)
	if m := leadingCloser.FindStringSubmatch(line); m != nil {
		return b.outdentBrace(doc, row, len(m[1]))
	}
	if m := directiveRe.FindStringSubmatch(line); m != nil {
		return doc.Replace(document.LineRange(row, 0, len(m[1])), "")
	}
	if m := accessLabelRe.FindStringSubmatch(line); m != nil {
		return outdentLabel(doc, row, m[1])
	}
	return nil
}

// outdentBrace reindents the closing brace ending at column to the
// indentation of the row holding its opening brace.
func (b BraceOutdent) outdentBrace(doc document.Document, row, column int) error {
	lines := doc.Lines()
	floor := 0
	if b.Floor != nil {
		floor = min(max(b.Floor(lines, row), 0), row)
	}
	// count only the text up to and including the brace being outdented
	probe := append([]string(nil), lines[floor:row]...)
	probe = append(probe, lines[row][:column])
	open := bracket.FindMatchingRow('}', probe, row-floor, 0, bracket.Backward)
	if open == bracket.NotFound {
		return nil
	}
	open += floor
	if open == row {
		return nil
	}
	indent := document.LeadingWhitespace(lines[open])
	current := column - 1
	if lines[row][:current] == indent {
		return nil
	}
	return doc.Replace(document.LineRange(row, 0, current), indent)
}

// outdentLabel moves an access label to the indentation of the nearest
// class or struct header above it.
func outdentLabel(doc document.Document, row int, current string) error {
	for i := row - 1; i >= 0; i-- {
		line := doc.Line(i)
		if !classOpenRe.MatchString(line) {
			continue
		}
		indent := document.LeadingWhitespace(line)
		if indent == current {
			return nil
		}
		return doc.Replace(document.LineRange(row, 0, len(current)), indent)
	}
	return nil
}
