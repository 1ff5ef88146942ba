package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/nildiert/checho/catalog"
	"github.com/nildiert/checho/compose"
	"github.com/nildiert/checho/layout"
)

// ErrMissingPrice means a group cannot be used in a price-visible variant; the whole group is dropped for
// that variant only.
var ErrMissingPrice = errors.New("record without price in a price-visible layout")

// SquareDir is the output directory of square flyers under the final directory.
const SquareDir = "cuadradas"

// Groups splits products into consecutive runs of layout.CardsPerFlyer; the last run may be shorter.
func Groups(products []catalog.Product) [][]catalog.Product {
	var out [][]catalog.Product
	for i := 0; i < len(products); i += layout.CardsPerFlyer {
		end := min(i+layout.CardsPerFlyer, len(products))
		out = append(out, products[i:end])
	}
	return out
}

// CheckPrices returns an error wrapping ErrMissingPrice naming the first record without a price.
func CheckPrices(group []catalog.Product) error {
	for _, p := range group {
		if !p.HasPrice() {
			return fmt.Errorf("%w: record %d", ErrMissingPrice, p.Index)
		}
	}
	return nil
}

// PaymentDir is "with_payment_data" or "without_payment_data".
func PaymentDir(priceVisible bool) string {
	if priceVisible {
		return "with_payment_data"
	}
	return "without_payment_data"
}

// ThreeUpPath is {final}/{mode}/{with|without}_payment_data/final_image_{n}.png; n counts groups from 1.
func ThreeUpPath(finalDir string, v layout.Variant, n int) string {
	return filepath.Join(finalDir, string(v.Mode), PaymentDir(v.PriceVisible), fmt.Sprintf("final_image_%d.png", n))
}

// SquarePath is {final}/cuadradas/final_image_square_{n}.png; n is the record index plus one.
func SquarePath(finalDir string, n int) string {
	return filepath.Join(finalDir, SquareDir, fmt.Sprintf("final_image_square_%d.png", n))
}

// Composer is the part of compose.Composer the runner drives.
type Composer interface {
	ThreeUp(v layout.Variant, group []catalog.Product) (*compose.Flyer, error)
	Square(p catalog.Product) (*compose.Flyer, error)
}

var _ Composer = (*compose.Composer)(nil)

// Store persists flyers and their debug scenes.
type Store interface {
	Save(path string, img image.Image) error
	SaveScene(path string, scene *layout.Scene) error
}

// DirStore writes PNG files, creating parent directories as needed.
type DirStore struct{}

// Save implements Store.
func (DirStore) Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return imaging.Save(img, path)
}

// SaveScene implements Store.
func (DirStore) SaveScene(path string, scene *layout.Scene) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return layout.WriteDebugJSON(scene, path)
}

// Options configures a Runner.
type Options struct {
	FinalDir string
	Debug    bool // write each flyer's scene as JSON next to it
	Logger   *log.Logger
}

// Report summarizes one run.
type Report struct {
	Written        []string `json:"written"`
	SkippedGroups  int      `json:"skippedGroups"`  // dropped by the price policy
	SkippedRecords int      `json:"skippedRecords"` // missing cutouts and failed cards
	EmptyFlyers    int      `json:"emptyFlyers"`    // groups where no card could be composed
}

// Runner applies the grouping and skip policies and writes flyers one at a time.
type Runner struct {
	composer Composer
	store    Store
	opts     Options
	log      *log.Logger
}

// NewRunner creates a Runner.
func NewRunner(c Composer, store Store, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{composer: c, store: store, opts: opts, log: logger}
}

// ThreeUp renders every group for each variant in order. Price-visible variants drop groups with a missing
// price; a flyer with no composed card is not written. ctx is checked between flyers.
func (r *Runner) ThreeUp(ctx context.Context, products []catalog.Product, variants []layout.Variant) (Report, error) {
	var rep Report
	groups := Groups(products)
	for _, v := range variants {
		for g, group := range groups {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if v.PriceVisible {
				if err := CheckPrices(group); err != nil {
					r.log.Printf("%s group %d skipped: %v", v, g+1, err)
					rep.SkippedGroups++
					continue
				}
			}
			flyer, err := r.composer.ThreeUp(v, group)
			if err != nil {
				return rep, fmt.Errorf("%s group %d: %w", v, g+1, err)
			}
			rep.SkippedRecords += len(group) - flyer.Composed
			if flyer.Composed == 0 {
				r.log.Printf("%s group %d: no card composed, nothing written", v, g+1)
				rep.EmptyFlyers++
				continue
			}
			path := ThreeUpPath(r.opts.FinalDir, v, g+1)
			if err := r.write(path, flyer); err != nil {
				return rep, err
			}
			rep.Written = append(rep.Written, path)
		}
	}
	return rep, nil
}

// Square renders one square flyer per product. Any per-record failure is logged and skipped.
func (r *Runner) Square(ctx context.Context, products []catalog.Product) (Report, error) {
	var rep Report
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		flyer, err := r.composer.Square(p)
		if err != nil {
			r.log.Printf("record %d: square flyer skipped: %v", p.Index, err)
			rep.SkippedRecords++
			continue
		}
		path := SquarePath(r.opts.FinalDir, p.Index+1)
		if err := r.write(path, flyer); err != nil {
			return rep, err
		}
		rep.Written = append(rep.Written, path)
	}
	return rep, nil
}

func (r *Runner) write(path string, flyer *compose.Flyer) error {
	if err := r.store.Save(path, flyer.Image); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.log.Printf("wrote %s", path)
	if !r.opts.Debug {
		return nil
	}
	scenePath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	if err := r.store.SaveScene(scenePath, flyer.Scene); err != nil {
		return fmt.Errorf("write %s: %w", scenePath, err)
	}
	return nil
}

// ClearDir removes everything inside dir, keeping dir itself. A missing dir is created.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
