package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/nildiert/checho/batch"
	"github.com/nildiert/checho/bgremove"
	"github.com/nildiert/checho/catalog"
	"github.com/nildiert/checho/fetch"
	"github.com/nildiert/checho/pipeline"
)

var flagWorkers int

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Download product photos and remove their backgrounds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		products, err := loadProducts()
		if err != nil {
			return err
		}
		_, err = prepare(cmd.Context(), products)
		return err
	},
}

func init() {
	prepareCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "records processed in parallel (env "+envWorkers+")")
}

func loadProducts() ([]catalog.Product, error) {
	products, err := catalog.LoadCSV(cfg.Sheet)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d products from %s", len(products), cfg.Sheet)
	return products, nil
}

// prepare clears the working directories, then downloads and cuts out every product.
func prepare(ctx context.Context, products []catalog.Product) ([]pipeline.Result, error) {
	header("Downloading and processing %d images", len(products))
	for _, dir := range []string{cfg.DownloadDir(), cfg.CutoutDir()} {
		if err := batch.ClearDir(dir); err != nil {
			return nil, fmt.Errorf("clear %s: %w", dir, err)
		}
	}
	errLog, err := fetch.NewErrorLog(cfg.ErrorLogPath())
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	results, err := pipeline.Prepare(ctx, products, fetch.New(fetch.Options{Errors: errLog}), bgremove.KeyRemover{}, pipeline.Options{
		DownloadDir: cfg.DownloadDir(),
		CutoutDir:   cfg.CutoutDir(),
		Workers:     workers,
		Errors:      errLog,
	})
	if err != nil {
		return results, err
	}
	ok := 0
	for _, r := range results {
		if r.Cutout {
			ok++
		}
	}
	if failed := len(results) - ok; failed > 0 {
		warn("%d of %d images failed, see %s", failed, len(results), errLog.Path())
	}
	done("%d cutouts ready in %s", ok, cfg.CutoutDir())
	return results, nil
}
