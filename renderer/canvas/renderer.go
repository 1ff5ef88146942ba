package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/nildiert/checho/fonts"
	"github.com/nildiert/checho/layout"
	"github.com/nildiert/checho/renderer"
)

// One layout px is one canvas millimetre rasterized at one dot per millimetre.
var resolution = canvas.DPMM(1.0)

// pieStepDegrees bounds the angular distance between sampled arc points.
const pieStepDegrees = 3.0

// Renderer rasterizes scenes via github.com/tdewolff/canvas and pastes images with imaging.
type Renderer struct {
	baseDir string
	log     *log.Logger

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string      // relative font paths are resolved against it; empty means the working directory
	Logger  *log.Logger // nil means log.Default()
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer from opts.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		baseDir:      opts.BaseDir,
		log:          logger,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Measure implements layout.Typesetter. size is the em height in px; the width is the advance of the whole
// string and the height is ascent plus descent, so a TextBox's Y is the top of its ink box.
func (r *Renderer) Measure(content string, font layout.FontResource, size float64) (layout.Extent, error) {
	face, err := r.fontFace(font, layout.PxToPt(size), layout.Color{})
	if err != nil {
		return layout.Extent{}, err
	}
	m := face.Metrics()
	return layout.Extent{Width: face.TextWidth(content), Height: m.Ascent + m.Descent}, nil
}

// Draw composites scene over base. Elements are painted in order: images are resized and pasted with their
// own alpha as mask, runs of vector elements are rasterized as one transparent layer and overlaid.
func (r *Renderer) Draw(base image.Image, scene *layout.Scene) (*image.NRGBA, error) {
	if base == nil {
		return nil, fmt.Errorf("canvas renderer: base image is nil")
	}
	if scene == nil {
		return nil, fmt.Errorf("canvas renderer: scene is nil")
	}
	dst := imaging.Clone(base)
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())

	var (
		c       *canvas.Canvas
		ctx     *canvas.Context
		pending *pathRun
	)
	flushPath := func() {
		if pending == nil {
			return
		}
		ctx.SetFillColor(colorFromLayout(pending.fill))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, pending.path)
		pending = nil
	}
	flushLayer := func() {
		if c == nil {
			return
		}
		flushPath()
		layer := rasterizer.Draw(c, resolution, canvas.DefaultColorSpace)
		dst = imaging.Overlay(dst, layer, image.Pt(0, 0), 1.0)
		c, ctx = nil, nil
	}
	ensureLayer := func() {
		if c != nil {
			return
		}
		c = canvas.New(w, h)
		ctx = canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, y down, like the layout
	}

	for i, el := range scene.Elements {
		switch el.Kind {
		case layout.KindImage:
			flushLayer()
			if el.Image == nil {
				return nil, fmt.Errorf("canvas renderer: element %d has no image payload", i)
			}
			dst = pasteImage(dst, *el.Image)
		case layout.KindRect, layout.KindPie:
			ensureLayer()
			fill, ok := shapeFill(el)
			if !ok {
				return nil, fmt.Errorf("canvas renderer: element %d has no %s payload", i, el.Kind)
			}
			if pending == nil || pending.role != el.Role || pending.fill != fill {
				flushPath()
				pending = &pathRun{role: el.Role, fill: fill, path: &canvas.Path{}}
			}
			if el.Kind == layout.KindRect {
				appendRect(pending.path, *el.Rect)
			} else {
				appendPie(pending.path, *el.Pie)
			}
		case layout.KindText:
			ensureLayer()
			flushPath()
			if el.Text == nil {
				return nil, fmt.Errorf("canvas renderer: element %d has no text payload", i)
			}
			if err := r.drawTextBox(ctx, *el.Text); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("canvas renderer: unknown element kind %q", el.Kind)
		}
	}
	flushLayer()
	return dst, nil
}

// pathRun accumulates consecutive shapes of one role and fill so they are filled as a single path; abutting
// pieces of a rounded rectangle then leave no anti-aliased seams.
type pathRun struct {
	role string
	fill layout.Color
	path *canvas.Path
}

func shapeFill(el layout.Element) (layout.Color, bool) {
	switch {
	case el.Kind == layout.KindRect && el.Rect != nil:
		return el.Rect.Fill, true
	case el.Kind == layout.KindPie && el.Pie != nil:
		return el.Pie.Fill, true
	}
	return layout.Color{}, false
}

// appendRect adds a clockwise (on screen) rectangle subpath.
func appendRect(p *canvas.Path, rc layout.Rect) {
	p.MoveTo(rc.X, rc.Y)
	p.LineTo(rc.X+rc.Width, rc.Y)
	p.LineTo(rc.X+rc.Width, rc.Y+rc.Height)
	p.LineTo(rc.X, rc.Y+rc.Height)
	p.Close()
}

// appendPie adds a sector subpath: center, then the arc sampled clockwise on screen, then back to the center.
// It shares the winding of appendRect so the nonzero fill unions them.
func appendPie(p *canvas.Path, pie layout.Pie) {
	sweep := pie.End - pie.Start
	if pie.R <= 0 || sweep <= 0 {
		return
	}
	steps := int(math.Ceil(sweep / pieStepDegrees))
	if steps < 2 {
		steps = 2
	}
	p.MoveTo(pie.CX, pie.CY)
	for i := 0; i <= steps; i++ {
		a := (pie.Start + sweep*float64(i)/float64(steps)) * math.Pi / 180
		p.LineTo(pie.CX+pie.R*math.Cos(a), pie.CY+pie.R*math.Sin(a))
	}
	p.Close()
}

func pasteImage(dst *image.NRGBA, box layout.ImageBox) *image.NRGBA {
	if box.Source == nil || box.Width <= 0 || box.Height <= 0 {
		return dst
	}
	src := box.Source
	if b := src.Bounds(); b.Dx() != box.Width || b.Dy() != box.Height {
		src = imaging.Resize(src, box.Width, box.Height, imaging.Lanczos)
	}
	return imaging.Overlay(dst, src, image.Pt(box.X, box.Y), 1.0)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, layout.PxToPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}
	// baseline: top of the ink box plus the ascent
	baseline := tb.Y + face.Metrics().Ascent
	ctx.DrawText(tb.X, baseline, canvas.NewTextLine(face, tb.Content, canvas.Left))
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.log.Printf("font %s unavailable, using %s: %v", font.Src, fonts.Regular, err)
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("font %s has no src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", src, err)
	}
	return data, nil
}

// fallback is used when a configured font cannot be loaded; callers hold fontMu.
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Regular)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("checho-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.Alpha())/255.0)
}
