// Package transform rewrites single insertions into comment and chunk
// skeletons. It only ever looks at the caret's line.
package transform

import (
	"regexp"

	"github.com/rubiojr/cindent/document"
)

// ActionKind names the editor action being transformed.
type ActionKind string

const (
	Insertion ActionKind = "insertion"
	Deletion  ActionKind = "deletion"
)

// ChunkSkeleton is a complete, empty R chunk. ChunkCaret is where the caret
// goes once it has been inserted, relative to its first row.
const ChunkSkeleton = "/*** R\n\n*/\n"

var ChunkCaret = document.Position{Row: 1, Column: 0}

// Selection is a caret range relative to the start of the inserted text.
type Selection struct {
	Start document.Position
	End   document.Position
}

// Edit replaces the text the host was about to insert. Selection is nil
// when the caret should simply follow the inserted text.
type Edit struct {
	Text      string
	Selection *Selection
}

func caret(row, col int) *Selection {
	p := document.Position{Row: row, Column: col}
	return &Selection{Start: p, End: p}
}

var (
	docOpenerRe   = regexp.MustCompile(`^(/\*[*!]\s*)`)
	roxygenRe     = regexp.MustCompile(`^((\s*//+')\s*)`)
	chunkPrefixRe = regexp.MustCompile(`^(\s*/\*{3,}\s+)`)
)

// Transformer completes doc comments, continues roxygen comments and
// expands chunk openers.
type Transformer struct {
	// Language is the character that completes a chunk opener.
	Language string
}

// New returns a Transformer for R chunks.
func New() *Transformer {
	return &Transformer{Language: "R"}
}

// Transform inspects line, the row the caret sits on, and returns the edit
// that should replace text. The second result is false when the insertion
// should go ahead unchanged.
func (t *Transformer) Transform(line string, cursor document.Position, kind ActionKind, text string) (Edit, bool) {
	if kind != Insertion {
		return Edit{}, false
	}
	switch text {
	case "\n":
		if m := docOpenerRe.FindStringSubmatch(line); m != nil && cursor.Column >= len(m[1]) {
			return Edit{Text: "\n * \n */\n", Selection: caret(1, 3)}, true
		}
		if m := roxygenRe.FindStringSubmatch(line); m != nil && cursor.Column >= len(m[2]) {
			return Edit{Text: "\n" + m[1]}, true
		}
	case t.language():
		if m := chunkPrefixRe.FindStringSubmatch(line); m != nil && cursor.Column >= len(m[1]) {
			return Edit{Text: text + "\n\n*/\n", Selection: caret(1, 0)}, true
		}
	}
	return Edit{}, false
}

func (t *Transformer) language() string {
	if t == nil || t.Language == "" {
		return "R"
	}
	return t.Language
}

// Chunk returns the skeleton of an empty chunk in language lang.
func Chunk(lang string) (string, document.Position) {
	if lang == "" || lang == "R" {
		return ChunkSkeleton, ChunkCaret
	}
	return "/*** " + lang + "\n\n*/\n", ChunkCaret
}
