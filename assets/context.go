package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/nildiert/checho/layout"
)

// Asset file names inside the templates directory.
const (
	SquareTemplateFile = "square_template.png"
	IconFile           = "icon.png"
	LogosDir           = "logos"
)

// CardFile is the card background of a mode; both price variants share it.
func CardFile(m layout.Mode) string { return string(m) + "_card.png" }

// TemplateFile is the three-up template of a variant.
func TemplateFile(v layout.Variant) string {
	if v.PriceVisible {
		return string(v.Mode) + "_template.png"
	}
	return "without_price_" + string(v.Mode) + "_template.png"
}

// LogoPath is the relative path of a logo for a mode: logos/{mode}/{key}.png.
func LogoPath(key string, m layout.Mode) string {
	return filepath.Join(LogosDir, string(m), NormalizeLogoKey(key)+".png")
}

// NormalizeLogoKey lowercases and trims a sheet logo value.
func NormalizeLogoKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// AssetError reports a template or card asset that could not be read. No flyer can be produced without it,
// so it aborts the run.
type AssetError struct {
	Name string
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// Layout is the resolved template, card and palette of one variant.
type Layout struct {
	Variant  layout.Variant
	Template image.Image
	Card     image.Image
	Palette  layout.Palette
}

// Options configures Load.
type Options struct {
	Dir        string
	Today      time.Time
	Fonts      layout.Fonts
	Labels     layout.Labels
	SquareMode layout.Mode
	ThreeUp    bool // load the four three-up variants
	Square     bool // load the square template and icon
	Logger     *log.Logger
}

// RenderContext holds the decoded assets, fonts, labels and the injected "today" of one run. It is built once
// and passed to the composers; logos are decoded lazily and cached per (mode, key).
type RenderContext struct {
	Dir        string
	Today      time.Time
	Fonts      layout.Fonts
	Labels     layout.Labels
	SquareMode layout.Mode

	layouts map[layout.Variant]*Layout
	square  image.Image
	icon    image.Image

	logoMu sync.Mutex
	logos  map[string]image.Image

	log *log.Logger
}

// Load decodes the assets the run needs. Unreadable templates, cards or the square template fail with an
// *AssetError; a missing icon only logs.
func Load(opts Options) (*RenderContext, error) {
	rc := &RenderContext{
		Dir:        opts.Dir,
		Today:      opts.Today,
		Fonts:      opts.Fonts,
		Labels:     opts.Labels,
		SquareMode: opts.SquareMode,
		layouts:    map[layout.Variant]*Layout{},
		logos:      map[string]image.Image{},
		log:        opts.Logger,
	}
	if rc.log == nil {
		rc.log = log.Default()
	}
	if rc.Fonts == (layout.Fonts{}) {
		rc.Fonts = layout.DefaultFonts()
	}
	if rc.Labels == (layout.Labels{}) {
		rc.Labels = layout.DefaultLabels()
	}
	if rc.SquareMode == "" {
		rc.SquareMode = layout.Light
	}

	if opts.ThreeUp {
		cards := map[layout.Mode]image.Image{}
		for _, m := range layout.Modes() {
			card, err := rc.required("card "+string(m), CardFile(m))
			if err != nil {
				return nil, err
			}
			cards[m] = card
		}
		for _, v := range layout.Variants() {
			tpl, err := rc.required("template "+v.String(), TemplateFile(v))
			if err != nil {
				return nil, err
			}
			rc.layouts[v] = &Layout{Variant: v, Template: tpl, Card: cards[v.Mode], Palette: layout.PaletteFor(v.Mode)}
		}
	}

	if opts.Square {
		tpl, err := rc.required("square template", SquareTemplateFile)
		if err != nil {
			return nil, err
		}
		b := tpl.Bounds()
		w, h := layout.SquareSize(b.Dx(), b.Dy())
		rc.square = imaging.Resize(tpl, w, h, imaging.Lanczos)

		icon, err := rc.optional(IconFile)
		if err != nil {
			rc.log.Printf("icon %s unreadable, square flyers will not carry it: %v", IconFile, err)
		}
		rc.icon = icon
	}
	return rc, nil
}

// Layout returns the assets of a variant.
func (rc *RenderContext) Layout(v layout.Variant) (*Layout, error) {
	l, ok := rc.layouts[v]
	if !ok {
		return nil, fmt.Errorf("assets: variant %s not loaded", v)
	}
	return l, nil
}

// SquareTemplate returns the square template already scaled to layout.SquareWidth.
func (rc *RenderContext) SquareTemplate() (image.Image, error) {
	if rc.square == nil {
		return nil, fmt.Errorf("assets: square template not loaded")
	}
	return rc.square, nil
}

// SquarePalette is the palette used for square flyers.
func (rc *RenderContext) SquarePalette() layout.Palette { return layout.PaletteFor(rc.SquareMode) }

// Icon returns the square flyer icon, or nil.
func (rc *RenderContext) Icon() image.Image { return rc.icon }

// Logo returns the logo of key for mode, or nil when the key is blank or the mode has no such asset.
func (rc *RenderContext) Logo(key string, m layout.Mode) image.Image {
	key = NormalizeLogoKey(key)
	if key == "" {
		return nil
	}
	cacheKey := string(m) + "/" + key
	rc.logoMu.Lock()
	defer rc.logoMu.Unlock()
	if img, ok := rc.logos[cacheKey]; ok {
		return img
	}
	img, err := rc.optional(LogoPath(key, m))
	if err != nil {
		rc.log.Printf("logo %s (%s) unreadable: %v", key, m, err)
	}
	rc.logos[cacheKey] = img
	return img
}

func (rc *RenderContext) required(name, rel string) (image.Image, error) {
	path := filepath.Join(rc.Dir, rel)
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &AssetError{Name: name, Path: path, Err: err}
	}
	return img, nil
}

// optional decodes rel, returning (nil, nil) when the file does not exist.
func (rc *RenderContext) optional(rel string) (image.Image, error) {
	path := filepath.Join(rc.Dir, rel)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}
