package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/nildiert/checho/bgremove"
	"github.com/nildiert/checho/catalog"
	"github.com/nildiert/checho/compose"
	"github.com/nildiert/checho/fetch"
)

// DownloadFile is the file name of a record's downloaded photo.
func DownloadFile(index int) string { return fmt.Sprintf("image_%d.png", index) }

// Downloader fetches one URL into a file.
type Downloader interface {
	Download(ctx context.Context, url, path string) error
}

var _ Downloader = (*fetch.Client)(nil)

// Options configures Prepare.
type Options struct {
	DownloadDir string
	CutoutDir   string
	Workers     int // concurrent records; default 4
	Errors      *fetch.ErrorLog
	Logger      *log.Logger
}

// Result is the outcome for one record. Err is set when either step failed.
type Result struct {
	Index      int    `json:"index"`
	Downloaded bool   `json:"downloaded"`
	Cutout     bool   `json:"cutout"`
	Err        error  `json:"-"`
	Reason     string `json:"reason,omitempty"`
}

// Prepare downloads each product photo and removes its background, several records at a time. Results are
// stored by position, so completion order never matters. A failing record is logged and recorded in its
// Result; only cancellation of ctx stops the run.
func Prepare(ctx context.Context, products []catalog.Product, d Downloader, rm bgremove.Remover, opts Options) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	for _, dir := range []string{opts.DownloadDir, opts.CutoutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	results := make([]Result, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range products {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = prepareOne(gctx, p, d, rm, opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func prepareOne(ctx context.Context, p catalog.Product, d Downloader, rm bgremove.Remover, opts Options, logger *log.Logger) Result {
	res := Result{Index: p.Index}
	raw := filepath.Join(opts.DownloadDir, DownloadFile(p.Index))
	if err := d.Download(ctx, p.PhotoURL, raw); err != nil {
		res.Err, res.Reason = err, err.Error()
		logger.Printf("record %d: download failed: %v", p.Index, err)
		return res
	}
	res.Downloaded = true

	cut := filepath.Join(opts.CutoutDir, compose.CutoutFile(p.Index))
	if err := bgremove.File(rm, raw, cut); err != nil {
		res.Err, res.Reason = err, err.Error()
		opts.Errors.Record("Failed to process image %s. Reason: %v", raw, err)
		logger.Printf("record %d: background removal failed: %v", p.Index, err)
		return res
	}
	res.Cutout = true
	return res
}
