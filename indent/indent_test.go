package indent

import (
	"strings"
	"testing"

	"github.com/rubiojr/cindent/lexstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func request(lines []string, row int) Request {
	return Request{
		State:   lexstate.Start,
		Line:    lines[row],
		Tab:     "  ",
		TabSize: 2,
		Row:     row,
		Column:  NoCaret,
		Lines:   lines,
	}
}

func explain(lines []string, row int) Decision {
	return New().Explain(request(lines, row))
}

func TestExplain_Rules(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		row    int
		rule   string
		indent string
	}{
		{"define with continuation", []string{`#define MAX(a, b) \`}, 0, "define-continuation", "  "},
		{"template close matched", []string{"template <typename T,", "          typename U>"}, 1, "template-close", "          "},
		{"comparison at end of line", []string{"bool b = a >"}, 0, "template-close", "  "},
		{"doc comment closed", []string{"    /**", "     * doc", "     */"}, 2, "block-comment-end", "    "},
		{"access label", []string{"public:"}, 0, "colon", "  "},
		{"case label", []string{"  case 1:"}, 0, "colon", "    "},
		{"after naked case", []string{"  case FOO:", "    x = 1;"}, 1, "after-case", "  "},
		{"namespace", []string{"namespace foo {"}, 0, "namespace-switch", ""},
		{"switch", []string{"  switch (x) {"}, 0, "namespace-switch", "  "},
		{"trailing plus", []string{"int x = a +"}, 0, "trailing-operator", "  "},
		{"trailing and", []string{"  ok = b &&"}, 0, "trailing-operator", "    "},
		{"trailing less-than", []string{"bool c = a <"}, 0, "trailing-operator", "  "},
		{"closing brace else", []string{"} else"}, 0, "else", "  "},
		{"after else", []string{"  else", "    y = 0;"}, 1, "after-else", "  "},
		{"if header", []string{"if (x > 0)"}, 0, "if-header", "  "},
		{"after if", []string{"if (x > 0)", "  return x;"}, 1, "after-if", ""},
		{"call closed on later row", []string{"  foo(a,", "      b);"}, 1, "close-bracket-terminator", "  "},
		{"initializer closed", []string{"int v[] = {", "  1, 2,", "};"}, 2, "close-bracket-terminator", ""},
		{"unmatched close falls through", []string{"  x);"}, 0, "default", "  "},
		{"open call argument list", []string{"foo(a,"}, 0, "trailing-comma", "    "},
		{"continued argument", []string{"foo(a,", "    b,"}, 1, "trailing-comma", "    "},
		{"closed bracket then comma", []string{"  {foo, bar}, baz,"}, 0, "trailing-comma", "  "},
		{"declaration list", []string{"int a = 1,"}, 0, "trailing-comma", ""},
		{"function header over two rows", []string{"int main(int argc,", "         char **argv) {"}, 1, "paren-brace", "  "},
		{"if block", []string{"  if (x) {"}, 0, "paren-brace", "    "},
		{"class with base list", []string{"class Foo :", "    public Bar {"}, 1, "open-bracket", "  "},
		{"class with multiple bases", []string{"class D :", "    protected A, public B {"}, 1, "open-bracket", "  "},
		{"struct", []string{"struct S {"}, 0, "open-bracket", "  "},
		{"do block", []string{"int z = compute(a, b, c);", "  do {"}, 1, "open-bracket", "    "},
		{"plain statement", []string{"x = 1;"}, 0, "default", ""},
		{"indented statement", []string{"    return x;"}, 0, "default", "    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := explain(tt.lines, tt.row)
			assert.Equal(t, tt.rule, d.Rule)
			assert.Equal(t, tt.indent, d.Indent)
		})
	}
}

func TestExplain_MacroContinuation(t *testing.T) {
	lines := []string{
		`#define X \`,
		`  1 + \`,
		`  2`,
	}
	d := explain(lines, 0)
	assert.Equal(t, "define-continuation", d.Rule)
	assert.Equal(t, "  ", d.Indent)

	// still continuing: the backslash is dropped and later rules decide
	d = explain(lines, 1)
	assert.Equal(t, "trailing-operator", d.Rule)
	assert.Equal(t, "    ", d.Indent)

	// caret before the backslash: the line being finished leaves the macro
	req := request(lines, 1)
	req.Column = 5
	d = New().Explain(req)
	assert.Equal(t, "macro-end", d.Rule)
	assert.Equal(t, "", d.Indent)
}

func TestExplain_IfElseSequence(t *testing.T) {
	lines := []string{
		"if (x > 0)",
		"  return x;",
		"else",
		"  return -x;",
	}
	assert.Equal(t, "  ", explain(lines, 0).Indent, "naked if nests")
	assert.Equal(t, "", explain(lines, 1).Indent, "statement after naked if returns")
	assert.Equal(t, "  ", explain(lines, 2).Indent, "naked else nests")
	assert.Equal(t, "", explain(lines, 3).Indent, "statement after naked else returns")
}

func TestExplain_VerticalAlignmentIgnoresTabSize(t *testing.T) {
	lines := []string{"foo(a,", "    b,"}
	for _, size := range []int{2, 4, 8} {
		req := request(lines, 0)
		req.TabSize = size
		req.Tab = strings.Repeat(" ", size)
		got := New().Compute(req)
		assert.Equal(t, strings.Index(lines[0], "a"), len(got))
	}
}

func TestExplain_TrailingCommentIgnored(t *testing.T) {
	d := explain([]string{"if (x) // check it"}, 0)
	assert.Equal(t, "if-header", d.Rule)

	d = explain([]string{"else // fallback", "  y();"}, 1)
	assert.Equal(t, "after-else", d.Rule)
	assert.Equal(t, "", d.Indent)
}

func TestExplain_CaretLimitsLine(t *testing.T) {
	lines := []string{"if (x) foo();"}
	d := explain(lines, 0)
	assert.Equal(t, "close-bracket-terminator", d.Rule)
	assert.Equal(t, "", d.Indent)

	req := request(lines, 0)
	req.Column = 6
	d = New().Explain(req)
	assert.Equal(t, "if-header", d.Rule)
	assert.Equal(t, "  ", d.Indent)

	// a caret past the end is the same as no caret
	req.Column = 100
	assert.Equal(t, "close-bracket-terminator", New().Explain(req).Rule)
}

func TestExplain_CommentState(t *testing.T) {
	tests := []struct {
		name   string
		state  string
		line   string
		rule   string
		indent string
	}{
		{"doc opener", lexstate.DocComment, "/** Summary", "comment-open", " * "},
		{"indented opener", lexstate.Comment, "  /* note", "comment-open", "   * "},
		{"star leader", lexstate.DocComment, " * text", "comment-aligned", " * "},
		{"wide star leader", lexstate.DocComment, " *    text", "comment-aligned", " *    "},
		{"bare star", lexstate.Comment, " *", "comment-default", " * "},
		{"blank line", lexstate.Comment, "   ", "comment-default", "   * "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{tt.line}
			req := request(lines, 0)
			req.State = tt.state
			d := New().Explain(req)
			assert.Equal(t, tt.rule, d.Rule)
			assert.Equal(t, tt.indent, d.Indent)
		})
	}
}

func TestExplain_OtherStatesKeepIndent(t *testing.T) {
	req := request([]string{"  if (x)"}, 0)
	req.State = "qqstring"
	d := New().Explain(req)
	assert.Equal(t, "keep", d.Rule)
	assert.Equal(t, "  ", d.Indent)
}

func TestExplain_UnknownRowKeepsIndent(t *testing.T) {
	for _, row := range []int{-1, 1, 5} {
		req := request([]string{"  if (x)"}, 0)
		req.Row = row
		d := New().Explain(req)
		assert.Equal(t, "no-row", d.Rule)
		assert.Equal(t, "  ", d.Indent)
	}
}

func TestContext_Unindent(t *testing.T) {
	c := &Context{Indent: "\t\t", Tab: "\t"}
	assert.Equal(t, "\t", c.Unindent())
	c = &Context{Indent: " ", Tab: "  "}
	assert.Equal(t, "", c.Unindent())
	c = &Context{Indent: "      ", Tab: "  "}
	assert.Equal(t, "    ", c.Unindent())
	assert.Equal(t, "        ", c.Nest())
}

func TestRules_Order(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	require.Len(t, names, 17)
	assert.Equal(t, "define-continuation", names[0])
	assert.Equal(t, "default", names[len(names)-1])
	// a trailing "case X:" line is a colon line before it is anything else
	c := NewContext(request([]string{"case X:"}, 0))
	for _, r := range Rules() {
		if r.Match == nil || r.Match(c) {
			assert.Equal(t, "colon", r.Name)
			break
		}
	}
}

var vocabulary = []string{
	"", "{", "}", "};", "int x = 1;", "if (x > 0)", "else", "} else {",
	"foo(a,", "    b);", "#define X \\", "  1 + \\", "case A:", "public:",
	"class Foo :", "    public Bar {", "namespace ns {", "switch (v) {",
	"template <typename T>", "x = a >", "/* c */", "return x; // done",
	"  {1, 2},", "for (int i = 0; i < n; ++i) {", "\tx += y;",
}

func TestCompute_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.SampledFrom(vocabulary), 1, 25).Draw(t, "lines")
		row := rapid.IntRange(0, len(lines)-1).Draw(t, "row")
		tab := rapid.SampledFrom([]string{"  ", "    ", "\t"}).Draw(t, "tab")
		req := Request{
			State:   lexstate.Start,
			Line:    lines[row],
			Tab:     tab,
			TabSize: len(tab),
			Row:     row,
			Column:  rapid.IntRange(-1, len(lines[row])+1).Draw(t, "column"),
			Lines:   lines,
		}
		snapshot := append([]string(nil), lines...)

		first := New().Explain(req)
		second := New().Explain(req)
		if first != second {
			t.Fatalf("non-deterministic: %+v vs %+v", first, second)
		}
		if strings.Trim(first.Indent, " \t") != "" {
			t.Fatalf("rule %s produced non-blank indent %q", first.Rule, first.Indent)
		}
		for i := range lines {
			if lines[i] != snapshot[i] {
				t.Fatalf("row %d modified", i)
			}
		}
	})
}
