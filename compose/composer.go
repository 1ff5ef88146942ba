package compose

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/nildiert/checho/assets"
	"github.com/nildiert/checho/catalog"
	"github.com/nildiert/checho/layout"
	"github.com/nildiert/checho/renderer"
)

// ErrMissingCutout means a record has no processed cutout; the record is skipped, never retried.
var ErrMissingCutout = errors.New("cutout not found")

// CutoutSource returns the processed cutout of a product.
type CutoutSource interface {
	Cutout(p catalog.Product) (image.Image, error)
}

// CutoutFile is the file name of a record's cutout inside the no-background directory.
func CutoutFile(index int) string { return fmt.Sprintf("image_no_bg_%d.png", index) }

// DirSource reads cutouts written by the preparation pipeline.
type DirSource struct {
	Dir string
}

// Cutout implements CutoutSource.
func (d DirSource) Cutout(p catalog.Product) (image.Image, error) {
	path := filepath.Join(d.Dir, CutoutFile(p.Index))
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingCutout, path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode cutout %s: %w", path, err)
	}
	return img, nil
}

// Flyer is one composed output raster and the scenes that produced it.
type Flyer struct {
	Image      *image.NRGBA
	Scene      *layout.Scene
	CardScenes []*layout.Scene // three-up only, in slot order of the composed cards
	Composed   int             // cards actually pasted
}

// Composer turns products into cards and flyers using one run's RenderContext.
type Composer struct {
	rc      *assets.RenderContext
	r       renderer.Renderer
	cutouts CutoutSource
	log     *log.Logger
}

// New creates a Composer. A nil logger means log.Default().
func New(rc *assets.RenderContext, r renderer.Renderer, cutouts CutoutSource, logger *log.Logger) *Composer {
	if logger == nil {
		logger = log.Default()
	}
	return &Composer{rc: rc, r: r, cutouts: cutouts, log: logger}
}

// Card lays out p on the variant's card background and rasterizes it.
func (c *Composer) Card(p catalog.Product, cutout image.Image, l *assets.Layout) (*image.NRGBA, *layout.Scene, error) {
	b := l.Card.Bounds()
	scene, err := layout.BuildCard(c.r, p, cutout, b.Dx(), b.Dy(), layout.CardOptions{
		Palette:      l.Palette,
		PriceVisible: l.Variant.PriceVisible,
		Today:        c.rc.Today,
		Fonts:        c.rc.Fonts,
		Labels:       c.rc.Labels,
		LogoKey:      assets.NormalizeLogoKey(p.LogoKey),
		Logo:         c.rc.Logo(p.LogoKey, l.Variant.Mode),
	})
	if err != nil {
		return nil, nil, err
	}
	c.logWarnings(p, scene)
	img, err := c.r.Draw(l.Card, scene)
	if err != nil {
		return nil, nil, fmt.Errorf("draw card %d: %w", p.Index, err)
	}
	return img, scene, nil
}

// ThreeUp composes up to layout.CardsPerFlyer products onto the variant's template. A product whose cutout is
// missing or unreadable, or whose card fails to build, is logged and its slot left empty.
func (c *Composer) ThreeUp(v layout.Variant, group []catalog.Product) (*Flyer, error) {
	if len(group) > layout.CardsPerFlyer {
		return nil, fmt.Errorf("compose: group of %d products exceeds %d", len(group), layout.CardsPerFlyer)
	}
	l, err := c.rc.Layout(v)
	if err != nil {
		return nil, err
	}
	flyer := &Flyer{}
	var cards []layout.SlotCard
	for slot, p := range group {
		cutout, err := c.cutouts.Cutout(p)
		if err != nil {
			c.log.Printf("record %d: skipped: %v", p.Index, err)
			continue
		}
		img, scene, err := c.Card(p, cutout, l)
		if err != nil {
			c.log.Printf("record %d: card not composed: %v", p.Index, err)
			continue
		}
		cards = append(cards, layout.SlotCard{Slot: slot, Name: "card-" + p.Key(), Image: img})
		flyer.CardScenes = append(flyer.CardScenes, scene)
	}

	tb := l.Template.Bounds()
	scene, err := layout.BuildThreeUp(tb.Dx(), tb.Dy(), cards)
	if err != nil {
		return nil, err
	}
	img, err := c.r.Draw(l.Template, scene)
	if err != nil {
		return nil, fmt.Errorf("draw %s flyer: %w", v, err)
	}
	flyer.Image, flyer.Scene, flyer.Composed = img, scene, len(cards)
	return flyer, nil
}

// Square composes one product onto the scaled square template. A missing cutout returns an error wrapping
// ErrMissingCutout.
func (c *Composer) Square(p catalog.Product) (*Flyer, error) {
	tpl, err := c.rc.SquareTemplate()
	if err != nil {
		return nil, err
	}
	cutout, err := c.cutouts.Cutout(p)
	if err != nil {
		return nil, err
	}
	b := tpl.Bounds()
	scene, err := layout.BuildSquare(c.r, p, cutout, b.Dx(), b.Dy(), layout.SquareOptions{
		Palette: c.rc.SquarePalette(),
		Today:   c.rc.Today,
		Fonts:   c.rc.Fonts,
		Labels:  c.rc.Labels,
		LogoKey: assets.NormalizeLogoKey(p.LogoKey),
		Logo:    c.rc.Logo(p.LogoKey, c.rc.SquareMode),
		Icon:    c.rc.Icon(),
	})
	if err != nil {
		return nil, err
	}
	c.logWarnings(p, scene)
	img, err := c.r.Draw(tpl, scene)
	if err != nil {
		return nil, fmt.Errorf("draw square flyer %d: %w", p.Index, err)
	}
	return &Flyer{Image: img, Scene: scene, Composed: 1}, nil
}

func (c *Composer) logWarnings(p catalog.Product, scene *layout.Scene) {
	for _, w := range scene.Warnings {
		c.log.Printf("record %d: %s", p.Index, w)
	}
}
