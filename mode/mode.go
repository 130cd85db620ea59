// Package mode is the host-facing API. It decides per row whether the
// primary C-like engine or the embedded chunk engine is in charge and
// passes every request through to that engine unchanged.
package mode

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rubiojr/cindent/document"
	"github.com/rubiojr/cindent/indent"
	"github.com/rubiojr/cindent/lexstate"
	"github.com/rubiojr/cindent/outdent"
	"github.com/rubiojr/cindent/rmode"
	"github.com/rubiojr/cindent/transform"
)

// Kind names the language governing a row.
type Kind int

const (
	PrimaryMode Kind = iota
	EmbeddedMode
)

func (k Kind) String() string {
	if k == EmbeddedMode {
		return "R"
	}
	return "C_CPP"
}

// Option configures a Mode.
type Option func(*Mode)

// WithTokenizer replaces the default lexer used to compute row states.
func WithTokenizer(tok lexstate.Tokenizer) Option {
	return func(m *Mode) { m.tok = tok }
}

// WithEmbedded replaces the engine used for embedded chunk rows.
func WithEmbedded(l Language) Option {
	return func(m *Mode) { m.embedded = l }
}

// WithPrimaryOutdent replaces the primary language's outdent strategy.
func WithPrimaryOutdent(s outdent.Strategy) Option {
	return func(m *Mode) { m.primary.Outdent = s }
}

// WithEmbeddedPrefix sets the state prefix that marks embedded rows.
func WithEmbeddedPrefix(prefix string) Option {
	return func(m *Mode) {
		if prefix != "" {
			m.prefix = prefix
		}
	}
}

// WithIndentUnit sets the indent unit and tab width used by Reindent.
func WithIndentUnit(tab string, tabSize int) Option {
	return func(m *Mode) {
		m.tab = tab
		m.tabSize = tabSize
	}
}

// WithChunkLanguage sets the character that completes a chunk opener.
func WithChunkLanguage(lang string) Option {
	return func(m *Mode) { m.transformer.Language = lang }
}

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mode) { m.log = l }
}

// Mode binds the engines to one document.
type Mode struct {
	doc         document.Document
	tok         lexstate.Tokenizer
	primary     *Primary
	embedded    Language
	prefix      string
	tab         string
	tabSize     int
	transformer *transform.Transformer
	log         *slog.Logger
}

// New returns a Mode for doc with the default lexer, rule engine and R
// chunk engine.
func New(doc document.Document, opts ...Option) *Mode {
	m := &Mode{
		doc:         doc,
		primary:     NewPrimary(),
		embedded:    rmode.New(),
		prefix:      lexstate.DefaultEmbeddedPrefix,
		tab:         "  ",
		tabSize:     4,
		transformer: transform.New(),
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tok == nil {
		m.tok = &lexstate.Lexer{EmbeddedPrefix: m.prefix}
	}
	return m
}

// Document returns the document the mode is bound to.
func (m *Mode) Document() document.Document { return m.doc }

// InEmbeddedMode reports whether state belongs to an embedded chunk.
func (m *Mode) InEmbeddedMode(state string) bool {
	return strings.HasPrefix(state, m.prefix)
}

// State returns the end-of-line state of row.
func (m *Mode) State(row int) string {
	if row < 0 || row >= m.doc.Len() {
		return lexstate.Start
	}
	return lexstate.StateAt(m.tok, m.doc.Lines(), row)
}

// States returns the end-of-line state of every row.
func (m *Mode) States() []string {
	return lexstate.Track(m.tok, m.doc.Lines())
}

// LanguageMode reports which language governs row. Rows outside the
// document are primary.
func (m *Mode) LanguageMode(row int) Kind {
	return m.kind(m.State(row))
}

func (m *Mode) kind(state string) Kind {
	if m.InEmbeddedMode(state) {
		return EmbeddedMode
	}
	return PrimaryMode
}

func (m *Mode) language(state string) Language {
	if m.InEmbeddedMode(state) {
		return m.embedded
	}
	return m.primary
}

// GetNextLineIndent returns the indent for the line inserted after row.
func (m *Mode) GetNextLineIndent(state, line, tab string, tabSize, row int) string {
	return m.NextLineIndent(indent.Request{
		State:   state,
		Line:    line,
		Tab:     tab,
		TabSize: tabSize,
		Row:     row,
		Column:  indent.NoCaret,
	})
}

// NextLineIndent is GetNextLineIndent with an optional caret column. A nil
// req.Lines is read from the document.
func (m *Mode) NextLineIndent(req indent.Request) string {
	if req.Lines == nil {
		req.Lines = m.doc.Lines()
	}
	m.log.Debug("next line indent", "row", req.Row, "state", req.State, "mode", m.kind(req.State))
	return m.language(req.State).NextLineIndent(req)
}

// Explain reports the rule that decides the indent after row. Embedded rows
// report "embedded".
func (m *Mode) Explain(req indent.Request) indent.Decision {
	if req.Lines == nil {
		req.Lines = m.doc.Lines()
	}
	if m.InEmbeddedMode(req.State) {
		return indent.Decision{Rule: "embedded", Indent: m.embedded.NextLineIndent(req)}
	}
	return m.primary.Engine.Explain(req)
}

// CheckOutdent reports whether typing input on line should trigger an
// outdent.
func (m *Mode) CheckOutdent(state, line, input string) bool {
	return m.language(state).CheckOutdent(state, line, input)
}

// AutoOutdent realigns row in place using the engine that owns state.
func (m *Mode) AutoOutdent(state string, row int) error {
	m.log.Debug("auto outdent", "row", row, "state", state, "mode", m.kind(state))
	if err := m.language(state).AutoOutdent(state, m.doc, row); err != nil {
		return fmt.Errorf("auto outdent row %d: %w", row, err)
	}
	return nil
}

// TransformAction returns the edit that should replace the inserted text,
// looking only at the caret's row. Embedded rows are never transformed.
func (m *Mode) TransformAction(state string, kind transform.ActionKind, text string, cursor document.Position) (transform.Edit, bool) {
	if m.InEmbeddedMode(state) {
		return transform.Edit{}, false
	}
	edit, ok := m.transformer.Transform(m.doc.Line(cursor.Row), cursor, kind, text)
	if ok {
		m.log.Debug("transform", "row", cursor.Row, "text", edit.Text)
	}
	return edit, ok
}

// CommentMarker returns the line comment prefix for state.
func (m *Mode) CommentMarker(state string) string {
	if m.InEmbeddedMode(state) {
		return "#"
	}
	return "//"
}

// ToggleCommentLines removes the line comment prefix from every row in
// [startRow, endRow] when all of them carry it, and adds it to every row
// otherwise. state is the state startRow starts in. The R marker is used
// only when every row in the range starts and ends inside a chunk, so the
// chunk delimiters always get //.
func (m *Mode) ToggleCommentLines(state string, startRow, endRow int) error {
	if startRow < 0 || endRow >= m.doc.Len() || startRow > endRow {
		return fmt.Errorf("toggle comment rows %d..%d: %w", startRow, endRow, document.ErrRowOutOfRange)
	}
	marker := m.rangeMarker(state, startRow, endRow)
	re := regexp.MustCompile(`^(\s*)` + regexp.QuoteMeta(marker))

	for i := startRow; i <= endRow; i++ {
		if !re.MatchString(m.doc.Line(i)) {
			return m.doc.IndentRows(startRow, endRow, marker)
		}
	}
	for i := startRow; i <= endRow; i++ {
		match := re.FindStringSubmatch(m.doc.Line(i))
		if err := m.doc.Replace(document.LineRange(i, 0, len(match[0])), match[1]); err != nil {
			return fmt.Errorf("uncomment row %d: %w", i, err)
		}
	}
	return nil
}

func (m *Mode) rangeMarker(entry string, startRow, endRow int) string {
	states := m.States()
	for i := startRow; i <= endRow; i++ {
		if !m.InEmbeddedMode(entry) || !m.InEmbeddedMode(states[i]) {
			return m.CommentMarker(lexstate.Start)
		}
		entry = states[i]
	}
	return m.CommentMarker(entry)
}
