// Package scanner provides string-boundary-aware scanning over a single
// source line. It tracks double-quoted and single-quoted literals (and,
// for languages that quote names with them, backticks) plus escape
// sequences, so the lexer and the embedded-language indenter never have to
// re-implement that logic.
package scanner

import "strings"

// closingKind tracks which type of string delimiter was just closed.
type closingKind byte

const (
	noClosing       closingKind = iota
	closingDouble               // just closed a "..." literal
	closingSingle               // just closed a '...' literal
	closingBacktick             // just closed a `...` name
)

// CodeScanner iterates byte-by-byte over source text, tracking literal
// boundaries and escape sequences. Callers check InString() instead of
// maintaining their own inDouble/inSingle/escaped flags.
//
// InString() returns true for the entire literal span including both
// opening and closing delimiters.
type CodeScanner struct {
	src       string
	pos       int
	backticks bool
	inDbl     bool
	inSgl     bool
	inBt      bool
	escaped   bool
	closing   closingKind // set when a closing delimiter is processed
}

// New creates a CodeScanner for C-like text, where backticks carry no
// meaning. Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1}
}

// NewWithBackticks creates a CodeScanner that also treats `...` as a
// quoted span (R uses backticks for non-syntactic names).
func NewWithBackticks(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1, backticks: true}
}

// Next advances to the next byte, updating literal/escape state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]

	if s.escaped {
		s.escaped = false
		return ch, true
	}
	if ch == '\\' && (s.inDbl || s.inSgl) {
		s.escaped = true
		return ch, true
	}
	switch {
	case ch == '"' && !s.inSgl && !s.inBt:
		if s.inDbl {
			s.closing = closingDouble
		}
		s.inDbl = !s.inDbl
	case ch == '\'' && !s.inDbl && !s.inBt:
		if s.inSgl {
			s.closing = closingSingle
		}
		s.inSgl = !s.inSgl
	case ch == '`' && s.backticks && !s.inDbl && !s.inSgl:
		if s.inBt {
			s.closing = closingBacktick
		}
		s.inBt = !s.inBt
	}

	return ch, true
}

// InString reports whether the current position is inside a quoted span,
// including both opening and closing delimiters.
func (s *CodeScanner) InString() bool {
	return s.inDbl || s.inSgl || s.inBt || s.closing != noClosing
}

// InCode reports whether the current position is outside all quoted spans.
func (s *CodeScanner) InCode() bool { return !s.InString() }

// Unterminated reports whether a literal is still open at the current
// position. At end of input this means the line ended inside a string.
func (s *CodeScanner) Unterminated() bool { return s.inDbl || s.inSgl || s.inBt }

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// LookingAt checks if src[pos:] starts with the given prefix.
func (s *CodeScanner) LookingAt(prefix string) bool {
	if s.pos < 0 || s.pos >= len(s.src) {
		return false
	}
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket/paren/brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

// CommentIndex returns the offset of the first occurrence of marker that
// lies outside every quoted span, or -1.
func CommentIndex(sc *CodeScanner, marker string) int {
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		if sc.InCode() && sc.LookingAt(marker) {
			return sc.Pos()
		}
	}
	return -1
}

// LastUnmatchedOpen returns the offset of the innermost opening bracket
// that is still unclosed at the end of the scanned text, ignoring brackets
// inside quoted spans. Returns -1 when every bracket is balanced.
func LastUnmatchedOpen(sc *CodeScanner) int {
	var stack []int
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		if IsOpenBracket(ch) {
			stack = append(stack, sc.Pos())
		} else if IsCloseBracket(ch) && len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) == 0 {
		return -1
	}
	return stack[len(stack)-1]
}

// Depth returns the bracket depth at the end of the scanned text, counting
// only brackets outside quoted spans. Negative values mean more closers
// than openers.
func Depth(sc *CodeScanner) int {
	depth := 0
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		if IsOpenBracket(ch) {
			depth++
		} else if IsCloseBracket(ch) {
			depth--
		}
	}
	return depth
}
