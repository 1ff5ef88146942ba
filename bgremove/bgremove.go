package bgremove

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmpty means an image has no opaque pixel left to crop to.
var ErrEmpty = errors.New("image is fully transparent")

// Remover turns a product photo into a cutout: transparent background, cropped to the product.
type Remover interface {
	Remove(img image.Image) (*image.NRGBA, error)
}

// AlphaCrop crops img to the bounding box of its non-transparent pixels.
func AlphaCrop(img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	b := src.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.NRGBAAt(x, y).A == 0 {
				continue
			}
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}
	if maxX < minX {
		return nil, ErrEmpty
	}
	return imaging.Crop(src, image.Rect(minX, minY, maxX+1, maxY+1)), nil
}

// CropOnly is a Remover for photos that already carry a transparent background.
type CropOnly struct{}

// Remove implements Remover.
func (CropOnly) Remove(img image.Image) (*image.NRGBA, error) { return AlphaCrop(img) }

// DefaultTolerance is the CIE Lab distance under which a pixel counts as background.
const DefaultTolerance = 0.12

// KeyRemover keys out a flat studio background. The background color is the dominant color of the image
// border; every pixel connected to the border within Tolerance of it becomes transparent, so product areas of
// the same color that do not touch the border are kept. Inputs that already have a transparent border are
// only cropped.
type KeyRemover struct {
	Tolerance float64
}

// Remove implements Remover.
func (k KeyRemover) Remove(img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmpty
	}
	if hasTransparentBorder(src) {
		return AlphaCrop(src)
	}
	tol := k.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	bg, ok := colorful.MakeColor(BorderColor(src))
	if !ok {
		return nil, fmt.Errorf("background color has zero alpha")
	}

	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	queue := make([]image.Point, 0, 2*(w+h))
	push := func(x, y int) {
		i := (y-b.Min.Y)*w + (x - b.Min.X)
		if visited[i] {
			return
		}
		visited[i] = true
		c, ok := colorful.MakeColor(src.NRGBAAt(x, y))
		if !ok || c.DistanceLab(bg) > tol {
			return
		}
		queue = append(queue, image.Pt(x, y))
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		push(x, b.Min.Y)
		push(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		push(b.Min.X, y)
		push(b.Max.X-1, y)
	}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		src.SetNRGBA(p.X, p.Y, color.NRGBA{})
		if p.X > b.Min.X {
			push(p.X-1, p.Y)
		}
		if p.X < b.Max.X-1 {
			push(p.X+1, p.Y)
		}
		if p.Y > b.Min.Y {
			push(p.X, p.Y-1)
		}
		if p.Y < b.Max.Y-1 {
			push(p.X, p.Y+1)
		}
	}
	return AlphaCrop(src)
}

// BorderColor returns the dominant color of the one-pixel frame of img. The frame pixels are tiled into a
// square sample so the detector's downscaling keeps every row.
func BorderColor(img *image.NRGBA) color.RGBA {
	b := img.Bounds()
	var border []color.NRGBA
	for x := b.Min.X; x < b.Max.X; x++ {
		border = append(border, img.NRGBAAt(x, b.Min.Y), img.NRGBAAt(x, b.Max.Y-1))
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		border = append(border, img.NRGBAAt(b.Min.X, y), img.NRGBAAt(b.Max.X-1, y))
	}
	side := int(math.Ceil(math.Sqrt(float64(len(border)))))
	sample := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < side*side; i++ {
		sample.SetNRGBA(i%side, i/side, border[i%len(border)])
	}
	return dominantcolor.Find(sample)
}

func hasTransparentBorder(img *image.NRGBA) bool {
	b := img.Bounds()
	for _, p := range []image.Point{b.Min, {b.Max.X - 1, b.Min.Y}, {b.Min.X, b.Max.Y - 1}, {b.Max.X - 1, b.Max.Y - 1}} {
		if img.NRGBAAt(p.X, p.Y).A < 255 {
			return true
		}
	}
	return false
}

// File runs r on the image at in and writes the cutout as PNG to out.
func File(r Remover, in, out string) error {
	img, err := imaging.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	cut, err := r.Remove(img)
	if err != nil {
		return fmt.Errorf("remove background of %s: %w", in, err)
	}
	if err := imaging.Save(cut, out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	return nil
}
