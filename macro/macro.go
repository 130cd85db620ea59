// Package macro recognizes multi-line preprocessor definitions: a line
// starting with #define, followed by any number of lines joined to it by a
// trailing backslash.
package macro

import (
	"regexp"
	"strings"
)

var defineRe = regexp.MustCompile(`^\s*#define`)

// StartsDefine reports whether line opens a #define directive, ignoring
// leading whitespace.
func StartsDefine(line string) bool {
	return defineRe.MatchString(line)
}

// LineContinues reports whether the last non-blank character of s is the
// continuation backslash.
func LineContinues(s string) bool {
	i := strings.LastIndexFunc(s, func(r rune) bool {
		return r != ' ' && r != '\t'
	})
	return i >= 0 && s[i] == '\\'
}

// InsideMacro reports whether row belongs to a #define: either the row
// itself starts one, or it ends in a backslash and so does every row back
// to one that does. Rows outside the buffer are never inside a macro.
func InsideMacro(lines []string, row int) bool {
	if row >= len(lines) {
		return false
	}
	for ; row >= 0; row-- {
		line := lines[row]
		if StartsDefine(line) {
			return true
		}
		if !LineContinues(line) {
			return false
		}
	}
	return false
}
