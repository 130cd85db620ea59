package mode

import (
	"strings"

	"github.com/rubiojr/cindent/document"
	"github.com/rubiojr/cindent/indent"
	"github.com/rubiojr/cindent/lexstate"
)

// Reindent returns lines as an editor would have left them had they been
// typed one after another: each row gets the indent computed for the row
// above it, then the outdent of its governing language is applied.
//
// Rows that start inside a block comment are kept verbatim, and chunk
// closers stay flush left so they still close the chunk. Blank rows come
// out empty.
func (m *Mode) Reindent(lines []string) []string {
	work := make([]string, len(lines))
	out := make([]string, len(lines))
	state := lexstate.Start

	for i, raw := range lines {
		content := strings.TrimLeft(raw, " \t")
		placed := true
		switch {
		case state == lexstate.Comment || state == lexstate.DocComment:
			work[i] = raw
			placed = false
		case m.InEmbeddedMode(state) && lexstate.ChunkCloser.MatchString(content):
			work[i] = content
			placed = false
		case i == 0:
			work[i] = content
		default:
			ind := m.NextLineIndent(indent.Request{
				State:   state,
				Line:    work[i-1],
				Tab:     m.tab,
				TabSize: m.tabSize,
				Row:     i - 1,
				Column:  indent.NoCaret,
				Lines:   work[:i],
			})
			work[i] = ind + content
		}

		_, next := m.tok.Tokenize(work[i], state)
		if placed && content != "" {
			work[i] = m.outdentRow(next, work[:i+1])
		}
		state = next

		if content == "" {
			out[i] = ""
		} else {
			out[i] = work[i]
		}
	}
	return out
}

// outdentRow applies the auto outdent of the language governing state to
// the last row of rows and returns the result.
func (m *Mode) outdentRow(state string, rows []string) string {
	buf := document.NewBuffer(rows)
	row := len(rows) - 1
	if err := m.language(state).AutoOutdent(state, buf, row); err != nil {
		m.log.Debug("reindent outdent", "row", row, "error", err)
	}
	return buf.Line(row)
}
