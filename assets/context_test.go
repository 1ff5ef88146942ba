package assets

import (
	"bytes"
	"errors"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/nildiert/checho/layout"
)

func writePNG(t *testing.T, dir, rel string, w, h int) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := imaging.Save(imaging.New(w, h, color.NRGBA{200, 200, 200, 255}), path); err != nil {
		t.Fatalf("save %s: %v", rel, err)
	}
}

func threeUpDir(t *testing.T) string {
	dir := t.TempDir()
	for _, m := range layout.Modes() {
		writePNG(t, dir, CardFile(m), 40, 20)
	}
	for _, v := range layout.Variants() {
		writePNG(t, dir, TemplateFile(v), 60, 120)
	}
	return dir
}

func TestFileNames(t *testing.T) {
	cases := []struct{ got, want string }{
		{TemplateFile(layout.Variant{Mode: layout.Light, PriceVisible: true}), "light_template.png"},
		{TemplateFile(layout.Variant{Mode: layout.Dark, PriceVisible: false}), "without_price_dark_template.png"},
		{CardFile(layout.Dark), "dark_card.png"},
		{LogoPath(" Nike ", layout.Light), filepath.Join("logos", "light", "nike.png")},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Fatalf("got %q want %q", c.got, c.want)
		}
	}
}

func TestLoadThreeUpResolvesEveryVariant(t *testing.T) {
	dir := threeUpDir(t)
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	rc, err := Load(Options{Dir: dir, Today: today, ThreeUp: true})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for _, v := range layout.Variants() {
		l, err := rc.Layout(v)
		if err != nil {
			t.Fatalf("Layout(%s): %v", v, err)
		}
		if l.Card.Bounds().Dx() != 40 || l.Template.Bounds().Dy() != 120 {
			t.Fatalf("%s: unexpected asset sizes", v)
		}
		if l.Palette.Price != layout.PaletteFor(v.Mode).Price {
			t.Fatalf("%s: palette does not follow mode", v)
		}
	}
	if rc.Fonts != layout.DefaultFonts() || rc.Labels != layout.DefaultLabels() || rc.SquareMode != layout.Light {
		t.Fatalf("defaults not applied")
	}
	if !rc.Today.Equal(today) {
		t.Fatalf("today not injected")
	}
	if _, err := rc.SquareTemplate(); err == nil {
		t.Fatalf("square template was not requested")
	}
}

func TestLoadMissingCardIsFatal(t *testing.T) {
	dir := threeUpDir(t)
	if err := os.Remove(filepath.Join(dir, CardFile(layout.Dark))); err != nil {
		t.Fatal(err)
	}
	_, err := Load(Options{Dir: dir, ThreeUp: true})
	var assetErr *AssetError
	if !errors.As(err, &assetErr) {
		t.Fatalf("expected *AssetError, got %v", err)
	}
	if assetErr.Path != filepath.Join(dir, "dark_card.png") {
		t.Fatalf("error path: %s", assetErr.Path)
	}
}

func TestLoadSquareScalesTemplateAndToleratesMissingIcon(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, SquareTemplateFile, 540, 540)
	var buf bytes.Buffer
	rc, err := Load(Options{Dir: dir, Square: true, Logger: log.New(&buf, "", 0)})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	tpl, err := rc.SquareTemplate()
	if err != nil {
		t.Fatalf("SquareTemplate: %v", err)
	}
	if b := tpl.Bounds(); b.Dx() != layout.SquareWidth || b.Dy() != layout.SquareWidth {
		t.Fatalf("square template size %v", b)
	}
	if rc.Icon() != nil {
		t.Fatalf("icon should be absent")
	}
}

func TestLogoLookupPerModeAndCache(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, filepath.Join("logos", "light", "nike.png"), 30, 10)
	rc, err := Load(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if rc.Logo("NIKE", layout.Light) == nil {
		t.Fatalf("light nike logo should resolve")
	}
	if rc.Logo("nike", layout.Dark) != nil {
		t.Fatalf("dark mode has no nike asset")
	}
	if rc.Logo("  ", layout.Light) != nil {
		t.Fatalf("blank key must not resolve")
	}
	// the cached image is reused even after the file disappears
	if err := os.RemoveAll(filepath.Join(dir, "logos")); err != nil {
		t.Fatal(err)
	}
	if rc.Logo("nike", layout.Light) == nil {
		t.Fatalf("logo lookups must be cached")
	}
}
