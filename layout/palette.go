package layout

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Mode selects the light or dark flyer family.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Modes lists the modes in rendering order.
func Modes() []Mode { return []Mode{Light, Dark} }

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want light or dark)", s)
	}
}

// Variant is one (mode, price visibility) combination; each selects a template, a card and a palette.
type Variant struct {
	Mode         Mode `json:"mode"`
	PriceVisible bool `json:"priceVisible"`
}

// Variants lists the four three-up variants in rendering order.
func Variants() []Variant {
	var out []Variant
	for _, m := range Modes() {
		out = append(out, Variant{Mode: m, PriceVisible: true}, Variant{Mode: m, PriceVisible: false})
	}
	return out
}

func (v Variant) String() string {
	if v.PriceVisible {
		return string(v.Mode) + "/with_prices"
	}
	return string(v.Mode) + "/without_prices"
}

// Palette holds the colors of one mode.
type Palette struct {
	Primary     Color            `json:"primary"`
	Background  Color            `json:"background"`
	Price       Color            `json:"price"`
	Banner1     Color            `json:"banner1"` // validity banner
	Banner2     Color            `json:"banner2"` // delivery banner
	Text        Color            `json:"text"`
	BannerText  Color            `json:"bannerText"`
	ChipDefault Color            `json:"chipDefault"`
	Chips       map[string]Color `json:"chips"` // by gender
}

// ChipFill returns the chip color for a gender, falling back to ChipDefault.
func (p Palette) ChipFill(gender string) Color {
	if c, ok := p.Chips[strings.ToLower(strings.TrimSpace(gender))]; ok {
		return c
	}
	return p.ChipDefault
}

// PaletteFor returns the palette of a mode.
func PaletteFor(m Mode) Palette {
	if m == Dark {
		return Palette{
			Primary:     MustHex("#4FAFFB"),
			Background:  MustHex("#121212"),
			Price:       MustHex("#FF4D47"),
			Banner1:     MustHex("#FD5647"),
			Banner2:     MustHex("#2F8FDB"),
			Text:        MustHex("#FFFFFF"),
			BannerText:  MustHex("#FFFFFF"),
			ChipDefault: MustHex("#3A3A3A"),
			Chips: map[string]Color{
				"hombre": MustHex("#1F3B57"),
				"mujer":  MustHex("#5A2140"),
			},
		}
	}
	return Palette{
		Primary:     MustHex("#4FAFFB"),
		Background:  MustHex("#FFFFFF"),
		Price:       MustHex("#EE0701"),
		Banner1:     MustHex("#FD5647"),
		Banner2:     MustHex("#4FAFFB"),
		Text:        MustHex("#000000"),
		BannerText:  MustHex("#FFFFFF"),
		ChipDefault: MustHex("#E6E6E6"),
		Chips: map[string]Color{
			"hombre": MustHex("#D2EBFF"),
			"mujer":  MustHex("#FFD6E8"),
		},
	}
}

// ParseHex parses "#RRGGBB" (or "#RGB") into a Color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(expandShortHex(s))
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: int(r), G: int(g), B: int(b)}, nil
}

// MustHex is ParseHex for constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func expandShortHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	return s
}
