package layout

import "math"

// RoundedRect appends a filled rectangle with rounded corners spanning (x0,y0)-(x1,y1): two rectangles cover
// the interior minus the radius strips, and four quarter-disc pies fill the corners. The renderer fills
// consecutive same-role, same-color pieces as one path, so the joins leave no seam.
func RoundedRect(s *Scene, role string, x0, y0, x1, y1, radius float64, fill Color) {
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return
	}
	r := math.Max(0, math.Min(radius, math.Min(w, h)/2))
	if r == 0 {
		s.AddRect(role, Rect{X: x0, Y: y0, Width: w, Height: h, Fill: fill})
		return
	}
	s.AddRect(role, Rect{X: x0 + r, Y: y0, Width: w - 2*r, Height: h, Fill: fill})
	s.AddRect(role, Rect{X: x0, Y: y0 + r, Width: w, Height: h - 2*r, Fill: fill})
	s.AddPie(role, Pie{CX: x0 + r, CY: y0 + r, R: r, Start: 180, End: 270, Fill: fill})
	s.AddPie(role, Pie{CX: x1 - r, CY: y0 + r, R: r, Start: 270, End: 360, Fill: fill})
	s.AddPie(role, Pie{CX: x0 + r, CY: y1 - r, R: r, Start: 90, End: 180, Fill: fill})
	s.AddPie(role, Pie{CX: x1 - r, CY: y1 - r, R: r, Start: 0, End: 90, Fill: fill})
}
