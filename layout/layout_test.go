package layout

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// stubTypesetter is a fixed-advance measurer so layout tests don't depend on a font: every rune is
// half the font size wide and a line is exactly one font size tall.
type stubTypesetter struct {
	calls int
}

func (s *stubTypesetter) Measure(content string, font FontResource, size float64) (Extent, error) {
	s.calls++
	return Extent{Width: float64(utf8.RuneCountInString(content)) * size / 2, Height: size}, nil
}

func TestRoundedRectPieces(t *testing.T) {
	s := &Scene{}
	fill := MustHex("#FD5647")
	RoundedRect(s, "banner", 10, 20, 110, 60, 5, fill)

	if got := s.Count("banner"); got != 6 {
		t.Fatalf("expected 2 rects + 4 pies, got %d elements", got)
	}
	rects, pies := 0, map[[2]float64]Pie{}
	for _, el := range s.Elements {
		switch el.Kind {
		case KindRect:
			rects++
		case KindPie:
			pies[[2]float64{el.Pie.Start, el.Pie.End}] = *el.Pie
		}
	}
	if rects != 2 {
		t.Fatalf("expected 2 rects, got %d", rects)
	}
	// angle ranges for top-left, top-right, bottom-left, bottom-right
	want := map[[2]float64][2]float64{
		{180, 270}: {15, 25},
		{270, 360}: {105, 25},
		{90, 180}:  {15, 55},
		{0, 90}:    {105, 55},
	}
	for angles, center := range want {
		p, ok := pies[angles]
		if !ok {
			t.Fatalf("missing pie %v", angles)
		}
		if p.CX != center[0] || p.CY != center[1] || p.R != 5 {
			t.Fatalf("pie %v: got center (%g,%g) r=%g want %v r=5", angles, p.CX, p.CY, p.R, center)
		}
	}
	// the two rects must meet the pies exactly: horizontal strip spans x0+r..x1-r, vertical y0+r..y1-r
	r0, r1 := s.Elements[0].Rect, s.Elements[1].Rect
	if r0.X != 15 || r0.X+r0.Width != 105 || r0.Height != 40 {
		t.Fatalf("horizontal strip: %+v", *r0)
	}
	if r1.Y != 25 || r1.Y+r1.Height != 55 || r1.Width != 100 {
		t.Fatalf("vertical strip: %+v", *r1)
	}
}

func TestRoundedRectClampsRadius(t *testing.T) {
	s := &Scene{}
	RoundedRect(s, "chip", 0, 0, 10, 10, 50, Color{})
	for _, el := range s.Elements {
		if el.Kind == KindPie && el.Pie.R != 5 {
			t.Fatalf("radius must clamp to half the shortest side, got %g", el.Pie.R)
		}
	}
	s = &Scene{}
	RoundedRect(s, "plain", 0, 0, 10, 10, 0, Color{})
	if len(s.Elements) != 1 || s.Elements[0].Kind != KindRect {
		t.Fatalf("zero radius should draw one rect, got %d elements", len(s.Elements))
	}
}

func TestWrapGreedy(t *testing.T) {
	ts := &stubTypesetter{}
	// size 10 => 5px per rune; 60px fits 12 runes
	lines, err := Wrap(ts, "Solo por hoy en todas las tiendas", FontResource{}, 10, 60)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	got := make([]string, len(lines))
	for i, ln := range lines {
		got[i] = ln.Content
		if ln.Width > 60 {
			t.Fatalf("line %q exceeds max width: %g", ln.Content, ln.Width)
		}
	}
	want := []string{"Solo por hoy", "en todas las", "tiendas"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrap: got=%q want=%q", got, want)
	}
}

func TestWrapNeverSplitsWords(t *testing.T) {
	ts := &stubTypesetter{}
	lines, err := Wrap(ts, "Supercalifragilistico ok", FontResource{}, 10, 20)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if len(lines) != 2 || lines[0].Content != "Supercalifragilistico" || lines[1].Content != "ok" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	lines, _ = Wrap(ts, "   ", FontResource{}, 10, 20)
	if len(lines) != 1 || lines[0].Content != "" {
		t.Fatalf("blank text must still yield one line: %+v", lines)
	}
}

func TestFitFontSizeSingleProportionalShrink(t *testing.T) {
	ts := &stubTypesetter{}
	// "$125.000" = 8 runes; at 110px => 440px wide, fits exactly
	size, err := FitFontSize(ts, "$125.000", FontResource{}, 110, 440, 36)
	if err != nil || size != 110 {
		t.Fatalf("fits already: size=%g err=%v", size, err)
	}
	// "$1.250.000" = 10 runes => 550px at 110; floor(110*440/550) = 88
	ts.calls = 0
	size, _ = FitFontSize(ts, "$1.250.000", FontResource{}, 110, 440, 36)
	if size != 88 {
		t.Fatalf("proportional shrink: got %g want 88", size)
	}
	if ts.calls != 1 {
		t.Fatalf("fit must measure once, measured %d times", ts.calls)
	}
	size, _ = FitFontSize(ts, strings.Repeat("9", 100), FontResource{}, 110, 440, 36)
	if size != 36 {
		t.Fatalf("min clamp: got %g want 36", size)
	}
}

func TestPlaceChipsRowsAndBounds(t *testing.T) {
	for _, xMax := range []float64{561, 600, 700, 980, 1000} {
		for n := 0; n <= 25; n++ {
			g := ChipGrid{X0: 517, Y0: 106, XMax: xMax, Size: 44, GapX: 9, GapY: 5}
			points := PlaceChips(n, g)
			if len(points) != n {
				t.Fatalf("n=%d: got %d points", n, len(points))
			}
			perRow := math.Floor((g.XMax - g.X0 + g.GapX) / (g.Size + g.GapX))
			wantRows := int(math.Ceil(float64(n) / perRow))
			rows := map[float64]bool{}
			for i, p := range points {
				rows[p.Y] = true
				if p.X+g.Size > g.XMax {
					t.Fatalf("xMax=%g n=%d: chip %d right edge %g exceeds %g", xMax, n, i, p.X+g.Size, g.XMax)
				}
				if i > 0 && p.Y < points[i-1].Y {
					t.Fatalf("chips must flow top to bottom")
				}
			}
			if len(rows) != wantRows {
				t.Fatalf("xMax=%g n=%d: rows=%d want %d", xMax, n, len(rows), wantRows)
			}
		}
	}
}

func TestPlaceChipsWrapPosition(t *testing.T) {
	g := ChipGrid{X0: 0, Y0: 0, XMax: 100, Size: 44, GapX: 9, GapY: 5}
	points := PlaceChips(3, g)
	want := []Point{{0, 0}, {53, 0}, {0, 49}}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("chip %d: got %+v want %+v", i, points[i], want[i])
		}
	}
}

func TestPackChipsCentersLabels(t *testing.T) {
	ts := &stubTypesetter{}
	s := &Scene{}
	g := ChipGrid{X0: 0, Y0: 0, XMax: 200, Size: 44, GapX: 9, GapY: 5, Radius: 5, FontSize: 18}
	bottom, err := PackChips(s, ts, []string{"38", "38.5"}, g)
	if err != nil {
		t.Fatalf("PackChips error: %v", err)
	}
	if bottom != 44 {
		t.Fatalf("bottom: got %g want 44", bottom)
	}
	labels := s.Texts(RoleChipLabel)
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	// "38" at 18px = 18px wide, 18px tall => offset floor((44-18)/2) = 13
	if labels[0].X != 13 || labels[0].Y != 13 {
		t.Fatalf("label 0 position: (%g,%g)", labels[0].X, labels[0].Y)
	}
	// "38.5" = 36px wide => floor((44-36)/2) = 4 from the second chip at x=53
	if labels[1].X != 57 {
		t.Fatalf("label 1 x: got %g want 57", labels[1].X)
	}
	if got := s.Count(RoleChip); got != 12 {
		t.Fatalf("expected 6 pieces per chip, got %d", got)
	}
}
