package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rubiojr/cindent/document"
	"github.com/stretchr/testify/assert"
)

func at(col int) document.Position { return document.Position{Row: 0, Column: col} }

func TestTransform(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		col    int
		text   string
		want   Edit
		wantOK bool
	}{
		{
			name: "doc comment opener", line: "/** ", col: 4, text: "\n",
			want: Edit{Text: "\n * \n */\n", Selection: caret(1, 3)}, wantOK: true,
		},
		{
			name: "qt style opener", line: "/*!", col: 3, text: "\n",
			want: Edit{Text: "\n * \n */\n", Selection: caret(1, 3)}, wantOK: true,
		},
		{name: "caret inside opener", line: "/** ", col: 2, text: "\n"},
		{name: "plain block comment", line: "/* ", col: 3, text: "\n"},
		{name: "indented doc opener", line: "  /** ", col: 6, text: "\n"},
		{
			name: "roxygen continuation", line: "  //' @param x", col: 14, text: "\n",
			want: Edit{Text: "\n  //' "}, wantOK: true,
		},
		{
			name: "roxygen marker only", line: "//'", col: 3, text: "\n",
			want: Edit{Text: "\n//'"}, wantOK: true,
		},
		{name: "caret before roxygen marker", line: "  //' x", col: 1, text: "\n"},
		{name: "plain line comment", line: "// note", col: 7, text: "\n"},
		{
			name: "chunk opener", line: "/*** ", col: 5, text: "R",
			want: Edit{Text: "R\n\n*/\n", Selection: caret(1, 0)}, wantOK: true,
		},
		{
			name: "long chunk opener", line: "  /****  ", col: 9, text: "R",
			want: Edit{Text: "R\n\n*/\n", Selection: caret(1, 0)}, wantOK: true,
		},
		{name: "chunk opener without space", line: "/***", col: 4, text: "R"},
		{name: "two stars only", line: "/** ", col: 4, text: "R"},
		{name: "other letter", line: "/*** ", col: 5, text: "x"},
	}
	tr := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.Transform(tt.line, at(tt.col), Insertion, tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("edit mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_OnlyInsertions(t *testing.T) {
	_, ok := New().Transform("/** ", at(4), Deletion, "\n")
	assert.False(t, ok)
}

func TestTransform_ChunkLanguage(t *testing.T) {
	tr := &Transformer{Language: "r"}
	e, ok := tr.Transform("/*** ", at(5), Insertion, "r")
	assert.True(t, ok)
	assert.Equal(t, "r\n\n*/\n", e.Text)

	_, ok = tr.Transform("/*** ", at(5), Insertion, "R")
	assert.False(t, ok)
}

func TestChunk(t *testing.T) {
	text, pos := Chunk("")
	assert.Equal(t, ChunkSkeleton, text)
	assert.Equal(t, document.Position{Row: 1, Column: 0}, pos)

	text, _ = Chunk("r")
	assert.Equal(t, "/*** r\n\n*/\n", text)
}

func TestChunkSkeleton_AppliedToBuffer(t *testing.T) {
	doc := document.FromString("int x;\n")
	text, _ := Chunk("R")
	err := doc.Replace(document.LineRange(0, 6, 6), "\n"+text[:len(text)-1])
	assert.NoError(t, err)
	assert.Equal(t, []string{"int x;", "/*** R", "", "*/"}, doc.Lines())
}
