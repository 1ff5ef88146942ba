package renderer

import (
	"image"

	"github.com/nildiert/checho/layout"
)

// Renderer paints a laid-out scene over a base raster and measures text for the layout builders.
// Draw never mutates base; it returns a new image the size of base.
type Renderer interface {
	layout.Typesetter
	Draw(base image.Image, scene *layout.Scene) (*image.NRGBA, error)
}
