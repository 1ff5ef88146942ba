package sizes

import "strings"

// Kind is the closed set of size column types ("Tipo" in the sheet).
type Kind int

const (
	Unspecified Kind = iota
	Numeric
	Talla
	Dimensiones
)

// ParseKind resolves the free-text type column once, at normalization time.
func ParseKind(raw string) Kind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "nan":
		return Unspecified
	case "talla":
		return Talla
	case "dimensiones":
		return Dimensiones
	default:
		return Numeric
	}
}

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Talla:
		return "talla"
	case Dimensiones:
		return "dimensiones"
	default:
		return "unspecified"
	}
}

// MarshalText keeps debug JSON readable.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
