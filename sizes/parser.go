package sizes

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	rangeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "HalfStep", Pattern: `\.\.\.`},
		{Name: "Step", Pattern: `\.\.`},
		{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?`},
		{Name: "Word", Pattern: `[^.\s]+`},
	})

	rangeParser = participle.MustBuild[rangeExpr](
		participle.Lexer(rangeLexer),
	)
)

// rangeExpr is one "A..B" (integer steps) or "A...B" (half steps) part.
type rangeExpr struct {
	From float64 `parser:"@Number"`
	Op   string  `parser:"@( HalfStep | Step )"`
	To   float64 `parser:"@Number"`
}

// Vocabulary is the ordered clothing-size vocabulary used for "talla" columns.
var Vocabulary = []string{"XXS", "XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "5XL"}

var vocabularyRank = func() map[string]int {
	out := make(map[string]int, len(Vocabulary))
	for i, v := range Vocabulary {
		out[v] = i
	}
	return out
}()

// Token is one size label: a number (integer or half step) or a literal string.
type Token struct {
	Numeric bool    `json:"numeric"`
	Value   float64 `json:"value,omitempty"`
	Label   string  `json:"label,omitempty"`
}

// Number builds a numeric token.
func Number(v float64) Token { return Token{Numeric: true, Value: v} }

// Literal builds a string token.
func Literal(s string) Token { return Token{Label: s} }

// String renders whole numbers without a decimal part ("38", "38.5", "XL").
func (t Token) String() string {
	if !t.Numeric {
		return t.Label
	}
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}

// MalformedRangeError reports a range part that could not be expanded.
type MalformedRangeError struct {
	Part   string
	Reason string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed size range %q: %s", e.Part, e.Reason)
}

// IsEmpty reports whether a size column carries no sizes at all.
func IsEmpty(spec string) bool {
	s := strings.TrimSpace(spec)
	return s == "" || strings.EqualFold(s, "nan")
}

// Parse turns a free-text size column into ordered display tokens.
//
// Talla columns are ordered by Vocabulary rank (unknown labels last, input order kept among ties).
// Dimensiones columns yield the trimmed text as a single literal. Everything else is expanded part by part,
// deduplicated and sorted: numbers ascending, then literals. A malformed range never drops the record: its raw
// text is kept as a literal and the returned error lists every malformed part.
func Parse(spec string, kind Kind) ([]Token, error) {
	if IsEmpty(spec) {
		return nil, nil
	}
	parts := strings.Fields(spec)
	switch kind {
	case Talla:
		tokens := make([]Token, 0, len(parts))
		for _, p := range parts {
			tokens = append(tokens, Literal(p))
		}
		sort.SliceStable(tokens, func(i, j int) bool {
			return tallaRank(tokens[i].Label) < tallaRank(tokens[j].Label)
		})
		return tokens, nil
	case Dimensiones:
		return []Token{Literal(strings.Join(parts, " "))}, nil
	}

	var (
		tokens []Token
		errs   []error
	)
	for _, part := range parts {
		if strings.Contains(part, "..") {
			expanded, err := ParseRange(part)
			if err != nil {
				errs = append(errs, err)
				tokens = append(tokens, Literal(part))
				continue
			}
			tokens = append(tokens, expanded...)
			continue
		}
		if v, ok := parseNumber(part); ok {
			tokens = append(tokens, Number(v))
			continue
		}
		tokens = append(tokens, Literal(part))
	}
	return sortTokens(dedupe(tokens)), errors.Join(errs...)
}

// MaxRangeSizes bounds how many sizes a single range may expand to.
const MaxRangeSizes = 200

// ParseRange expands "A...B" into half steps and "A..B" into integers, both inclusive.
func ParseRange(part string) ([]Token, error) {
	expr, err := rangeParser.ParseString("", part)
	if err != nil {
		return nil, &MalformedRangeError{Part: part, Reason: "bounds must be numeric"}
	}
	if expr.From > expr.To {
		return nil, &MalformedRangeError{Part: part, Reason: "start is greater than end"}
	}
	span := math.Floor(expr.To) - math.Floor(expr.From)
	if expr.Op == "..." {
		span = math.Floor((expr.To - expr.From) * 2)
	}
	if span+1 > MaxRangeSizes {
		return nil, &MalformedRangeError{Part: part, Reason: fmt.Sprintf("expands to more than %d sizes", MaxRangeSizes)}
	}
	var out []Token
	if expr.Op == "..." {
		steps := int(span)
		for i := 0; i <= steps; i++ {
			out = append(out, Number(expr.From+0.5*float64(i)))
		}
		return out, nil
	}
	for v := int(expr.From); v <= int(expr.To); v++ {
		out = append(out, Number(float64(v)))
	}
	return out, nil
}

// Labels renders tokens for display.
func Labels(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func tallaRank(label string) int {
	if r, ok := vocabularyRank[strings.ToUpper(label)]; ok {
		return r
	}
	return len(Vocabulary)
}

func dedupe(tokens []Token) []Token {
	seenNum := map[float64]bool{}
	seenStr := map[string]bool{}
	out := tokens[:0]
	for _, t := range tokens {
		if t.Numeric {
			if seenNum[t.Value] {
				continue
			}
			seenNum[t.Value] = true
		} else {
			if seenStr[t.Label] {
				continue
			}
			seenStr[t.Label] = true
		}
		out = append(out, t)
	}
	return out
}

func sortTokens(tokens []Token) []Token {
	sort.SliceStable(tokens, func(i, j int) bool {
		a, b := tokens[i], tokens[j]
		if a.Numeric != b.Numeric {
			return a.Numeric
		}
		if a.Numeric {
			return a.Value < b.Value
		}
		return a.Label < b.Label
	})
	return tokens
}
