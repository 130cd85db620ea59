// Package indent computes the indentation of the line that follows the
// caret when a newline is inserted into primary-language code.
//
// There is no parse tree. The decision is made from the text of the
// current and previous line, the end-of-line lexer state, and bounded scans
// over nearby rows (bracket balance and macro continuation). Rules are tried
// in a fixed order and the first one that produces an indent wins.
package indent

import (
	"regexp"
	"strings"

	"github.com/rubiojr/cindent/document"
	"github.com/rubiojr/cindent/lexstate"
)

// NoCaret marks a request without caret information; the whole line is
// then considered.
const NoCaret = -1

// Request carries everything the engine looks at. The engine never
// modifies Lines.
type Request struct {
	// State is the lexer state at the end of Row.
	State string
	// Line is the text of Row as the host sees it.
	Line string
	// Tab is one indent unit: spaces or "\t".
	Tab     string
	TabSize int
	Row     int
	// Column is the caret column on Row, or NoCaret.
	Column int
	Lines  []string
}

// Decision is the outcome of one computation: the indent string and the
// name of the rule that produced it.
type Decision struct {
	Rule   string
	Indent string
}

// Context is the normalized view of a request that rules operate on.
// Rules may narrow Line before declining (see the macro rule).
type Context struct {
	// Line is the current line with any trailing // comment removed and
	// cut at the caret.
	Line string
	// LastLine is the previous row with any trailing // comment removed,
	// or "" on the first row.
	LastLine string
	// Indent is the leading whitespace of the unmodified current line.
	Indent  string
	Tab     string
	TabSize int
	Row     int
	Lines   []string
}

// NewContext normalizes req: trailing line comments are stripped from the
// current and previous line and the current line is cut at the caret.
func NewContext(req Request) *Context {
	c := &Context{
		Indent:  document.LeadingWhitespace(req.Line),
		Tab:     req.Tab,
		TabSize: req.TabSize,
		Row:     req.Row,
		Lines:   req.Lines,
	}
	if req.Row > 0 && req.Row-1 < len(req.Lines) {
		c.LastLine = req.Lines[req.Row-1]
	}
	c.Line = stripLineComment(req.Line)
	c.LastLine = stripLineComment(c.LastLine)
	if req.Column >= 0 && req.Column < len(c.Line) {
		c.Line = c.Line[:req.Column]
	}
	return c
}

// stripLineComment cuts line at the first "//". The search is raw, so a
// "//" inside a string literal cuts too.
func stripLineComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return strings.TrimRight(line[:i], " \t")
	}
	return line
}

// Unindent returns the indent with one unit removed.
func (c *Context) Unindent() string {
	if len(c.Indent) <= len(c.Tab) {
		return ""
	}
	return c.Indent[:len(c.Indent)-len(c.Tab)]
}

// Nest returns the indent with one unit added.
func (c *Context) Nest() string { return c.Indent + c.Tab }

// validRow reports whether Row addresses a line of the buffer.
func (c *Context) validRow() bool {
	return c.Row >= 0 && c.Row < len(c.Lines)
}

// Engine evaluates the comment branch or the ordered rule list. The zero
// value is not usable; call New.
type Engine struct {
	rules []Rule
}

// New returns an engine with the standard rule order.
func New() *Engine {
	return &Engine{rules: Rules()}
}

// Compute returns the indent for the line after req.Row.
func (e *Engine) Compute(req Request) string {
	return e.Explain(req).Indent
}

// Explain is Compute that also reports which rule decided.
func (e *Engine) Explain(req Request) Decision {
	c := NewContext(req)
	if !c.validRow() {
		return Decision{Rule: "no-row", Indent: c.Indent}
	}
	switch req.State {
	case lexstate.Comment, lexstate.DocComment:
		return commentIndent(c)
	case lexstate.Start, "":
		for _, r := range e.rules {
			if r.Match != nil && !r.Match(c) {
				continue
			}
			if indent, ok := r.Action(c); ok {
				return Decision{Rule: r.Name, Indent: indent}
			}
		}
	}
	return Decision{Rule: "keep", Indent: c.Indent}
}

var (
	commentOpenRe   = regexp.MustCompile(`/\*`)
	commentStarText = regexp.MustCompile(`\s*\*+\s*\w`)
	wordRe          = regexp.MustCompile(`\w`)
)

// commentIndent continues a block comment. A line that opens the comment
// gets a " * " leader; a line whose text follows a star leader keeps the
// text column; anything else gets the default leader one column left of
// the current indent, which lines " * " up under the opening "/*".
func commentIndent(c *Context) Decision {
	line := c.Line
	if commentOpenRe.MatchString(line) {
		return Decision{Rule: "comment-open", Indent: c.Indent + " * "}
	}
	if commentStarText.MatchString(line) {
		word := wordRe.FindStringIndex(line)[0]
		star := strings.IndexByte(line, '*')
		if word > star {
			return Decision{Rule: "comment-aligned", Indent: c.Indent + "*" + spaces(word-star-1)}
		}
		return Decision{Rule: "comment-aligned", Indent: c.Indent + "* "}
	}
	indent := c.Indent
	if indent != "" {
		indent = indent[:len(indent)-1]
	}
	return Decision{Rule: "comment-default", Indent: indent + " * "}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
