package indent

import (
	"regexp"
	"strings"

	"github.com/rubiojr/cindent/bracket"
	"github.com/rubiojr/cindent/macro"
)

// Rule is one entry of the ordered decision list. Match selects the rule;
// Action produces the indent or declines, in which case evaluation moves
// on to the next rule. A nil Match always selects.
type Rule struct {
	Name   string
	Match  func(c *Context) bool
	Action func(c *Context) (string, bool)
}

var (
	defineContRe     = regexp.MustCompile(`#define.*\\`)
	closeAngleRe     = regexp.MustCompile(`>$`)
	blockCommentEnd  = regexp.MustCompile(`\*/\s*$`)
	trailingColonRe  = regexp.MustCompile(`:\s*$`)
	nakedCaseRe      = regexp.MustCompile(`case\s+\w+:\s*$`)
	namespaceOpenRe  = regexp.MustCompile(`namespace .*\{\s*$`)
	switchOpenRe     = regexp.MustCompile(`switch .*\{\s*$`)
	trailingOpRe     = regexp.MustCompile(`[+\-/*|<&^%=]\s*$`)
	elseRe           = regexp.MustCompile(`else *$`)
	lastElseRe       = regexp.MustCompile(`else\s*$`)
	ifHeaderRe       = regexp.MustCompile(`if.*\)\s*$`)
	closeTerminateRe = regexp.MustCompile(`([)}\]])[;,]$`)
	trailingCommaRe  = regexp.MustCompile(`,\s*$`)
	parenBraceRe     = regexp.MustCompile(`\)\s*\{\s*$`)
	openBracketEndRe = regexp.MustCompile(`^.*[{(\[]\s*$`)
	classKeywordRe   = regexp.MustCompile(`class\s+|struct\s+`)
	quotedRe         = regexp.MustCompile(`".*?"`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
	nonSpaceRe       = regexp.MustCompile(`\S`)
)

func lineMatches(re *regexp.Regexp) func(*Context) bool {
	return func(c *Context) bool { return re.MatchString(c.Line) }
}

func lastLineMatches(re *regexp.Regexp) func(*Context) bool {
	return func(c *Context) bool { return re.MatchString(c.LastLine) }
}

func nest(c *Context) (string, bool)     { return c.Nest(), true }
func unindent(c *Context) (string, bool) { return c.Unindent(), true }
func keep(c *Context) (string, bool)     { return c.Indent, true }

// Rules returns the rule list in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "define-continuation", Match: lineMatches(defineContRe), Action: nest},
		{Name: "macro-end", Match: insideMacro, Action: leaveMacro},
		{Name: "template-close", Match: lineMatches(closeAngleRe), Action: closeAngle},
		{Name: "block-comment-end", Match: lineMatches(blockCommentEnd), Action: dropCommentColumn},
		{Name: "colon", Match: lineMatches(trailingColonRe), Action: nest},
		{Name: "after-case", Match: lastLineMatches(nakedCaseRe), Action: unindent},
		{Name: "namespace-switch", Match: opensFlatBlock, Action: keep},
		{Name: "trailing-operator", Match: lineMatches(trailingOpRe), Action: nest},
		{Name: "else", Match: lineMatches(elseRe), Action: nest},
		{Name: "after-else", Match: lastLineMatches(lastElseRe), Action: unindent},
		{Name: "if-header", Match: lineMatches(ifHeaderRe), Action: nest},
		{Name: "after-if", Match: lastLineMatches(ifHeaderRe), Action: unindent},
		{Name: "close-bracket-terminator", Match: lineMatches(closeTerminateRe), Action: alignToOpeningRow},
		{Name: "trailing-comma", Match: lineMatches(trailingCommaRe), Action: alignAfterBracket},
		{Name: "paren-brace", Match: lineMatches(parenBraceRe), Action: nestFromParenRow},
		{Name: "open-bracket", Match: lineMatches(openBracketEndRe), Action: openBracket},
		{Name: "default", Action: keep},
	}
}

func insideMacro(c *Context) bool {
	return macro.InsideMacro(c.Lines, c.Row)
}

// leaveMacro outdents once the line no longer carries the continuation
// backslash. Otherwise the backslash and everything after it is dropped so
// later rules see the code alone.
func leaveMacro(c *Context) (string, bool) {
	i := strings.IndexByte(c.Line, '\\')
	if i < 0 {
		return c.Unindent(), true
	}
	c.Line = c.Line[:i]
	return "", false
}

// closeAngle treats a trailing '>' as the end of a template argument list
// when a matching '<' exists, and as a comparison operator otherwise.
func closeAngle(c *Context) (string, bool) {
	if bracket.FindMatchingRow('>', c.Lines, c.Row, 0, bracket.Backward) != bracket.NotFound {
		return c.Indent, true
	}
	return c.Nest(), true
}

// dropCommentColumn removes the single column that aligned the " * "
// leaders of a block comment under its opening "/*".
func dropCommentColumn(c *Context) (string, bool) {
	if c.Indent == "" {
		return "", true
	}
	return c.Indent[1:], true
}

func opensFlatBlock(c *Context) bool {
	return namespaceOpenRe.MatchString(c.Line) || switchOpenRe.MatchString(c.Line)
}

// firstNonSpace returns the column of the first non-blank byte of line.
func firstNonSpace(line string) int {
	if loc := nonSpaceRe.FindStringIndex(line); loc != nil {
		return loc[0]
	}
	return 0
}

// alignToOpeningRow lines the next statement up with the row holding the
// bracket that a trailing ");", "};" or "]," closes.
func alignToOpeningRow(c *Context) (string, bool) {
	m := closeTerminateRe.FindStringSubmatch(c.Line)
	row := bracket.FindMatchingRow(m[1][0], c.Lines, c.Row, 0, bracket.Backward)
	if row == bracket.NotFound {
		return "", false
	}
	return spaces(firstNonSpace(c.Lines[row])), true
}

// alignAfterBracket vertically aligns a continued argument or initializer
// list. The new line starts under the first opening bracket of the line,
// one column further when that bracket is not closed on the same line.
func alignAfterBracket(c *Context) (string, bool) {
	pos := strings.IndexAny(c.Line, "[{(")
	if pos < 0 {
		return c.Indent, true
	}
	col := pos
	closer, _ := bracket.Complement(c.Line[pos])
	if strings.IndexByte(c.Line, closer) < 0 {
		col++
	}
	return spaces(col), true
}

// nestFromParenRow indents the body of a block whose header ends in ") {"
// relative to the row where the header's parenthesis opened.
func nestFromParenRow(c *Context) (string, bool) {
	row := bracket.FindMatchingRow(')', c.Lines, c.Row, 0, bracket.Backward)
	if row == bracket.NotFound {
		return "", false
	}
	return spaces(firstNonSpace(c.Lines[row])) + c.Tab, true
}

// openBracket indents after a line ending in an open bracket. When the
// bracket closes a class or struct header whose base list spans several
// lines, e.g.
//
//	class foo :
//	    public A {
//
// the body is indented relative to the class keyword instead of the
// current line. The walk upward stops once the rows seen hold more words
// than a base list (separated by ',' or ':') could.
func openBracket(c *Context) (string, bool) {
	tokens, commas := 0, 0
	for i := c.Row; i >= 0; i-- {
		line := c.Lines[i]
		if strings.Contains(line, ":") {
			loc := classKeywordRe.FindStringIndex(line)
			if loc == nil && i > 0 {
				loc = classKeywordRe.FindStringIndex(c.Lines[i-1])
			}
			if loc != nil {
				return spaces(loc[0]) + c.Tab, true
			}
		}

		line = strings.Replace(line, c.Indent, "", 1)
		for _, kw := range []string{"public ", "private ", "protected ", "virtual "} {
			line = strings.ReplaceAll(line, kw, "")
		}
		line = quotedRe.ReplaceAllString(line, "")
		line = whitespaceRunRe.ReplaceAllString(line, " ")

		tokens += strings.Count(line, " ")
		commas += strings.Count(line, ",")
		if tokens-commas > 1 {
			break
		}
	}
	return c.Nest(), true
}
