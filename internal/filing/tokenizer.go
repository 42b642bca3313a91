// Package filing parses the SEC Official List of Section 13(f) Securities.
package filing

import (
	"regexp"
	"strings"
)

// identifierPattern matches a CUSIP as printed in the list: six characters,
// two characters and the check digit separated by single spaces.
var identifierPattern = regexp.MustCompile(`\b[A-Z0-9]{6} [A-Z0-9]{2} \d\b`)

// Line is one cleaned text line annotated with its boundary status.
type Line struct {
	Text       string
	Boundary   bool
	Identifier string // set on boundary lines, whitespace stripped
}

// Tokenize marks every line that carries an identifier as a record boundary.
func Tokenize(lines []string) []Line {
	out := make([]Line, 0, len(lines))
	for _, text := range lines {
		line := Line{Text: text}
		if id, ok := MatchIdentifier(text); ok {
			line.Boundary = true
			line.Identifier = id
		}
		out = append(out, line)
	}
	return out
}

// MatchIdentifier returns the identifier found in text with its internal
// whitespace removed.
func MatchIdentifier(text string) (string, bool) {
	m := identifierPattern.FindString(text)
	if m == "" {
		return "", false
	}
	return stripSpace(m), true
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
