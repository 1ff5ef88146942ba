package layout

import "math"

// Flyers are laid out in pixels. The canvas renderer rasterizes at one dot per millimetre, so one layout unit
// is one canvas millimetre; font sizes are converted to points only at the font-face boundary.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt converts a pixel font size (em height) to the point size a canvas font face expects.
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx converts a point size back to pixels.
func PtToPx(pt float64) float64 { return pt * PtToMm }

// floorPx truncates a scaled dimension the way integer pixel arithmetic does.
func floorPx(v float64) int { return int(math.Floor(v)) }
