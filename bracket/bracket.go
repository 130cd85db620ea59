// Package bracket locates the row that balances a bracket character by
// counting raw occurrences per line. The counts are not context-aware:
// brackets and quotes inside string or comment literals count the same as
// structural ones.
package bracket

import "strings"

// NotFound is returned by FindMatchingRow when the scan leaves the buffer
// before the balance drops to zero.
const NotFound = -1

// Direction selects which way FindMatchingRow walks from its start row.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// complements maps each bracket-like character to its counterpart. Quote
// characters map to themselves.
var complements = map[byte]byte{
	'<':  '>',
	'>':  '<',
	'{':  '}',
	'}':  '{',
	'[':  ']',
	']':  '[',
	'(':  ')',
	')':  '(',
	'\'': '\'',
	'"':  '"',
}

// Complement returns the counterpart of ch and whether ch is in the table.
func Complement(ch byte) (byte, bool) {
	c, ok := complements[ch]
	return c, ok
}

// FindMatchingRow walks rows from startRow in direction dir. On each row it
// adds the occurrences of ch and subtracts the occurrences of its
// complement; the first row where the running balance is <= 0 is returned.
// Characters outside the complement table, and rows outside the buffer,
// yield NotFound.
func FindMatchingRow(ch byte, lines []string, startRow, balance int, dir Direction) int {
	comp, ok := complements[ch]
	if !ok {
		return NotFound
	}
	step := -1
	if dir == Forward {
		step = 1
	}
	row := startRow
	// at most one visit per row
	for i := 0; i < len(lines); i++ {
		if row < 0 || row >= len(lines) {
			return NotFound
		}
		line := lines[row]
		closing := strings.Count(line, string(ch))
		opening := strings.Count(line, string(comp))
		balance += closing - opening
		if balance <= 0 {
			return row
		}
		row += step
	}
	return NotFound
}
