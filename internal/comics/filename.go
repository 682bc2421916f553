package comics

import (
	"regexp"
	"strings"
	"unicode"
)

var reDashes = regexp.MustCompile(`-+`)

// slug turns a page label into a filename fragment: spaces become dashes and
// anything that is not a letter, digit, dash or underscore is dropped.
func slug(s string) string {
	s = strings.TrimSpace(s)

	repl := []string{
		" ", "-",
		"/", "-",
		"\\", "-",
		"—", "-",
		"–", "-",
	}
	for i := 0; i < len(repl); i += 2 {
		s = strings.ReplaceAll(s, repl[i], repl[i+1])
	}

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			clean = append(clean, r)
		}
	}

	return strings.Trim(reDashes.ReplaceAllString(string(clean), "-"), "-")
}
