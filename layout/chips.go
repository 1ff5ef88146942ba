package layout

// ChipGrid configures the flowing grid of size chips.
type ChipGrid struct {
	X0       float64 // row start
	Y0       float64
	XMax     float64 // no chip's right edge may pass this
	Size     float64 // chip edge length
	GapX     float64
	GapY     float64
	Radius   float64
	Fill     Color
	Text     Color
	Font     FontResource
	FontSize float64
}

// Point is a chip's top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlaceChips returns the top-left corners of n chips flowing left to right, top to bottom. Before placing a
// chip, if it would cross XMax the row wraps back to X0. A chip that starts a row is never wrapped again, so
// a grid narrower than one chip still terminates with one chip per row.
func PlaceChips(n int, g ChipGrid) []Point {
	points := make([]Point, 0, n)
	x, y := g.X0, g.Y0
	for i := 0; i < n; i++ {
		if x != g.X0 && x+g.Size > g.XMax {
			x = g.X0
			y += g.Size + g.GapY
		}
		points = append(points, Point{X: x, Y: y})
		x += g.Size + g.GapX
	}
	return points
}

// PackChips appends one rounded chip per label with the label centered inside it, in input order.
// It returns the bottom edge of the last row (Y0 when labels is empty).
func PackChips(s *Scene, ts Typesetter, labels []string, g ChipGrid) (float64, error) {
	bottom := g.Y0
	for i, pt := range PlaceChips(len(labels), g) {
		RoundedRect(s, RoleChip, pt.X, pt.Y, pt.X+g.Size, pt.Y+g.Size, g.Radius, g.Fill)
		tb, err := CenteredText(ts, labels[i], g.Font, g.FontSize, g.Text, pt.X, pt.Y, g.Size, g.Size)
		if err != nil {
			return 0, err
		}
		s.AddText(RoleChipLabel, tb)
		bottom = pt.Y + g.Size
	}
	return bottom, nil
}
