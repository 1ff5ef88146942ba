package layout

// Typesetter measures text for the builders. The canvas renderer implements it with real font faces; tests use
// a fixed-advance stub.
type Typesetter interface {
	Measure(content string, font FontResource, size float64) (Extent, error)
}

// Extent is the measured width and height of a single line, in px.
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Fonts selects the faces used by the builders.
type Fonts struct {
	Heading FontResource // price
	Body    FontResource // labels, chips, banners
}

// DefaultFonts uses the bundled Go fonts.
func DefaultFonts() Fonts {
	return Fonts{
		Heading: FontResource{Name: "Heading", Src: "embed:Go-Bold", Style: "bold"},
		Body:    FontResource{Name: "Body", Src: "embed:Go-Medium", Style: "medium"},
	}
}

// FontsFromFile uses one TTF file for every role. The heading registers the file as the bold face of its
// family.
func FontsFromFile(path string) Fonts {
	return Fonts{
		Heading: FontResource{Name: "Custom", Src: path, Style: "bold"},
		Body:    FontResource{Name: "Custom", Src: path},
	}
}
