// Package lexstate is the token stream adapter: it assigns each line an
// opaque end-of-line state naming the sub-grammar the following line starts
// in. The indentation core only ever reads those states.
package lexstate

import (
	"regexp"
	"strings"

	"github.com/rubiojr/cindent/scanner"
)

// States produced by Lexer.
const (
	Start      = "start"
	Comment    = "comment"
	DocComment = "doc-start"
)

// DefaultEmbeddedPrefix marks every state that belongs to an embedded R chunk.
const DefaultEmbeddedPrefix = "r-"

// Token types produced by Lexer.
const (
	TokenCode    = "code"
	TokenString  = "string"
	TokenComment = "comment"
	TokenChunk   = "chunk"
)

// Token is one lexical span of a line.
type Token struct {
	Type  string
	Value string
}

// Tokenizer splits a line that starts in state into tokens and reports the
// state the next line starts in.
type Tokenizer interface {
	Tokenize(line, state string) (tokens []Token, next string)
}

// ChunkOpener matches the line that opens an embedded R chunk.
var ChunkOpener = regexp.MustCompile(`^\s*/\*{3,}\s+[Rr]\s*$`)

// ChunkCloser matches the line that closes an embedded chunk.
var ChunkCloser = regexp.MustCompile(`^\*/\s*$`)

// Lexer is the default Tokenizer: C-like code with block comments, doc
// comments and embedded R chunks.
type Lexer struct {
	// EmbeddedPrefix is prepended to the embedded states. Empty means
	// DefaultEmbeddedPrefix.
	EmbeddedPrefix string
}

func (l *Lexer) prefix() string {
	if l == nil || l.EmbeddedPrefix == "" {
		return DefaultEmbeddedPrefix
	}
	return l.EmbeddedPrefix
}

// EmbeddedStart returns the state used for lines inside a chunk.
func (l *Lexer) EmbeddedStart() string { return l.prefix() + "start" }

// Tokenize splits line into tokens, starting in state, and returns the
// state at the end of the line.
func (l *Lexer) Tokenize(line, state string) ([]Token, string) {
	if state == "" {
		state = Start
	}
	if strings.HasPrefix(state, l.prefix()) {
		if ChunkCloser.MatchString(line) {
			return []Token{{TokenChunk, line}}, Start
		}
		return []Token{{TokenCode, line}}, state
	}
	if state == Start && ChunkOpener.MatchString(line) {
		return []Token{{TokenChunk, line}}, l.EmbeddedStart()
	}

	var tokens []Token
	emit := func(typ string, from, to int) {
		if to <= from {
			return
		}
		if n := len(tokens); n > 0 && tokens[n-1].Type == typ {
			tokens[n-1].Value += line[from:to]
			return
		}
		tokens = append(tokens, Token{typ, line[from:to]})
	}

	// search for the terminator from here; skips the "/*" of the opener
	searchFrom := 0
	i := 0
	for i < len(line) {
		if state == Comment || state == DocComment {
			end := strings.Index(line[searchFrom:], "*/")
			if end < 0 {
				emit(TokenComment, i, len(line))
				return tokens, state
			}
			stop := searchFrom + end + 2
			emit(TokenComment, i, stop)
			i = stop
			state = Start
			continue
		}
		var opened string
		i, opened = scanCode(line, i, emit)
		if opened != "" {
			state = opened
			searchFrom = i + 2
		}
	}
	return tokens, state
}

// scanCode tokenizes code starting at from until the end of the line or
// the start of a block comment. It returns the offset where scanning
// stopped and, if a block comment opens there, the comment state.
func scanCode(line string, from int, emit func(typ string, from, to int)) (int, string) {
	sc := scanner.New(line[from:])
	spanStart := from
	inStr := false
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		pos := from + sc.Pos()
		if sc.InString() {
			if !inStr {
				emit(TokenCode, spanStart, pos)
				spanStart = pos
				inStr = true
			}
			if !sc.Unterminated() {
				emit(TokenString, spanStart, pos+1)
				spanStart = pos + 1
				inStr = false
			}
			continue
		}
		if sc.LookingAt("//") {
			emit(TokenCode, spanStart, pos)
			emit(TokenComment, pos, len(line))
			return len(line), ""
		}
		if sc.LookingAt("/*") {
			emit(TokenCode, spanStart, pos)
			if (sc.LookingAt("/**") || sc.LookingAt("/*!")) && !sc.LookingAt("/**/") {
				return pos, DocComment
			}
			return pos, Comment
		}
	}
	if inStr {
		emit(TokenString, spanStart, len(line))
	} else {
		emit(TokenCode, spanStart, len(line))
	}
	return len(line), ""
}

// Track returns the end state of every line, starting the first one in
// Start. The pass is linear in the number of lines.
func Track(tok Tokenizer, lines []string) []string {
	states := make([]string, len(lines))
	state := Start
	for i, line := range lines {
		_, state = tok.Tokenize(line, state)
		states[i] = state
	}
	return states
}

// StateAt returns the end state of row without materializing the states of
// later rows. Rows before the buffer report Start.
func StateAt(tok Tokenizer, lines []string, row int) string {
	state := Start
	if row >= len(lines) {
		row = len(lines) - 1
	}
	for i := 0; i <= row; i++ {
		_, state = tok.Tokenize(lines[i], state)
	}
	return state
}
