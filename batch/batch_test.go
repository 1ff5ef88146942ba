package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/nildiert/checho/catalog"
	"github.com/nildiert/checho/compose"
	"github.com/nildiert/checho/layout"
)

type fakeComposer struct {
	missing map[int]bool // records without cutout
	calls   []string
}

func (f *fakeComposer) ThreeUp(v layout.Variant, group []catalog.Product) (*compose.Flyer, error) {
	f.calls = append(f.calls, v.String())
	n := 0
	for _, p := range group {
		if !f.missing[p.Index] {
			n++
		}
	}
	return &compose.Flyer{Image: image.NewNRGBA(image.Rect(0, 0, 4, 4)), Scene: &layout.Scene{}, Composed: n}, nil
}

func (f *fakeComposer) Square(p catalog.Product) (*compose.Flyer, error) {
	if f.missing[p.Index] {
		return nil, compose.ErrMissingCutout
	}
	return &compose.Flyer{Image: image.NewNRGBA(image.Rect(0, 0, 4, 4)), Scene: &layout.Scene{}, Composed: 1}, nil
}

type memStore struct {
	images map[string]image.Image
	scenes []string
}

func newMemStore() *memStore { return &memStore{images: map[string]image.Image{}} }

func (m *memStore) Save(path string, img image.Image) error {
	m.images[path] = img
	return nil
}

func (m *memStore) SaveScene(path string, _ *layout.Scene) error {
	m.scenes = append(m.scenes, path)
	return nil
}

func products(n int, noPrice ...int) []catalog.Product {
	skip := map[int]bool{}
	for _, i := range noPrice {
		skip[i] = true
	}
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{Index: i}
		if !skip[i] {
			v := float64(100000 + i)
			out[i].Price = &v
		}
	}
	return out
}

func quietRunner(c Composer, s Store, opts Options) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	opts.Logger = log.New(&buf, "", 0)
	return NewRunner(c, s, opts), &buf
}

func TestGroups(t *testing.T) {
	for n, want := range map[int][]int{0: nil, 1: {1}, 3: {3}, 4: {3, 1}, 8: {3, 3, 2}} {
		var got []int
		for _, g := range Groups(products(n)) {
			got = append(got, len(g))
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("n=%d: group sizes %v want %v", n, got, want)
		}
	}
}

func TestPaths(t *testing.T) {
	got := ThreeUpPath("final", layout.Variant{Mode: layout.Dark, PriceVisible: false}, 2)
	if want := filepath.Join("final", "dark", "without_payment_data", "final_image_2.png"); got != want {
		t.Fatalf("three-up path %q want %q", got, want)
	}
	if got, want := SquarePath("final", 5), filepath.Join("final", "cuadradas", "final_image_square_5.png"); got != want {
		t.Fatalf("square path %q want %q", got, want)
	}
}

func TestMissingPriceDropsWholeGroupForPriceVariantOnly(t *testing.T) {
	fc := &fakeComposer{}
	store := newMemStore()
	r, logs := quietRunner(fc, store, Options{FinalDir: "out"})

	// record 1 of the first group lacks a price
	rep, err := r.ThreeUp(context.Background(), products(5, 1), layout.Variants()[:2])
	if err != nil {
		t.Fatalf("ThreeUp error: %v", err)
	}
	withPrice := layout.Variant{Mode: layout.Light, PriceVisible: true}
	withoutPrice := layout.Variant{Mode: layout.Light, PriceVisible: false}
	if _, ok := store.images[ThreeUpPath("out", withPrice, 1)]; ok {
		t.Fatalf("group 1 must produce no price-visible flyer")
	}
	for _, want := range []string{ThreeUpPath("out", withPrice, 2), ThreeUpPath("out", withoutPrice, 1), ThreeUpPath("out", withoutPrice, 2)} {
		if _, ok := store.images[want]; !ok {
			t.Fatalf("missing %s", want)
		}
	}
	if rep.SkippedGroups != 1 || len(rep.Written) != 3 {
		t.Fatalf("report: %+v", rep)
	}
	if !strings.Contains(logs.String(), "record 1") || !errors.Is(CheckPrices(products(3, 1)), ErrMissingPrice) {
		t.Fatalf("skip not reported: %q", logs.String())
	}
}

func TestEmptyFlyerIsNotWritten(t *testing.T) {
	fc := &fakeComposer{missing: map[int]bool{0: true, 1: true, 2: true, 4: true}}
	store := newMemStore()
	r, _ := quietRunner(fc, store, Options{FinalDir: "out"})

	rep, err := r.ThreeUp(context.Background(), products(5), []layout.Variant{{Mode: layout.Dark}})
	if err != nil {
		t.Fatalf("ThreeUp error: %v", err)
	}
	if rep.EmptyFlyers != 1 || rep.SkippedRecords != 4 || len(store.images) != 1 {
		t.Fatalf("report %+v, written %d", rep, len(store.images))
	}
	if _, ok := store.images[ThreeUpPath("out", layout.Variant{Mode: layout.Dark}, 2)]; !ok {
		t.Fatalf("second flyer keeps its sequence number")
	}
}

func TestSquareSkipsMissingCutouts(t *testing.T) {
	fc := &fakeComposer{missing: map[int]bool{1: true}}
	store := newMemStore()
	r, logs := quietRunner(fc, store, Options{FinalDir: "out", Debug: true})

	rep, err := r.Square(context.Background(), products(3))
	if err != nil {
		t.Fatalf("Square error: %v", err)
	}
	want := []string{SquarePath("out", 1), SquarePath("out", 3)}
	if !reflect.DeepEqual(rep.Written, want) {
		t.Fatalf("written %v want %v", rep.Written, want)
	}
	if len(store.scenes) != 2 || !strings.HasSuffix(store.scenes[0], "final_image_square_1.json") {
		t.Fatalf("debug scenes: %v", store.scenes)
	}
	if !strings.Contains(logs.String(), "record 1") {
		t.Fatalf("missing diagnostic: %q", logs.String())
	}
}

func TestCancelledRunStopsBetweenFlyers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _ := quietRunner(&fakeComposer{}, newMemStore(), Options{})
	if _, err := r.ThreeUp(ctx, products(3), layout.Variants()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDirStoreAndClearDir(t *testing.T) {
	dir := t.TempDir()
	path := ThreeUpPath(dir, layout.Variant{Mode: layout.Light, PriceVisible: true}, 1)
	if err := (DirStore{}).Save(path, image.NewNRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, err := imaging.Open(path)
	if err != nil || img.Bounds().Dx() != 3 {
		t.Fatalf("reopen: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("ClearDir: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("dir not cleared: %d entries", len(entries))
	}
	fresh := filepath.Join(dir, "new")
	if err := ClearDir(fresh); err != nil {
		t.Fatalf("ClearDir on missing dir: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("missing dir should be created: %v", err)
	}
}
