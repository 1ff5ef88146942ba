package binding

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var filters = map[string]func(string) string{
	"capitalize": Capitalize,
	"upper":      func(s string) string { return cases.Upper(language.Spanish).String(s) },
	"lower":      func(s string) string { return cases.Lower(language.Spanish).String(s) },
	"trim":       strings.TrimSpace,
}

// Interpolate replaces ${name} and ${name|filter|...} in text with values from data.
// Unknown names and unknown filters leave the placeholder untouched.
func Interpolate(text string, data map[string]any) string {
	if len(data) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		segments := strings.Split(groups[1], "|")
		val, ok := data[strings.TrimSpace(segments[0])]
		if !ok {
			return match
		}
		out := fmt.Sprint(val)
		for _, name := range segments[1:] {
			fn, ok := filters[strings.TrimSpace(name)]
			if !ok {
				return match
			}
			out = fn(out)
		}
		return out
	})
}

// Capitalize upper-cases the first letter and lower-cases the rest ("MUJER" -> "Mujer").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := cases.Lower(language.Spanish).String(s)
	r := []rune(lower)
	head := cases.Upper(language.Spanish).String(string(r[0]))
	return head + string(r[1:])
}
