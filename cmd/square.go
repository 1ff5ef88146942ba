package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nildiert/checho/assets"
	"github.com/nildiert/checho/batch"
	"github.com/nildiert/checho/compose"
	"github.com/nildiert/checho/layout"
	canvasrenderer "github.com/nildiert/checho/renderer/canvas"
)

var flagSquareMode string

var squareCmd = &cobra.Command{
	Use:   "square",
	Short: "Compose one square flyer per product from existing cutouts",
	RunE:  runSquare,
}

func init() {
	squareCmd.Flags().StringVar(&flagSquareMode, "mode", "", "palette for square flyers: light or dark (env "+envSquareMode+")")
}

func runSquare(cmd *cobra.Command, _ []string) error {
	mode := cfg.SquareMode
	if flagSquareMode != "" {
		m, err := layout.ParseMode(flagSquareMode)
		if err != nil {
			return err
		}
		mode = m
	}
	products, err := loadProducts()
	if err != nil {
		return err
	}
	rc, err := assets.Load(assets.Options{
		Dir:        cfg.TemplatesDir,
		Today:      cfg.Today,
		Fonts:      cfg.Fonts(),
		SquareMode: mode,
		Square:     true,
	})
	if err != nil {
		return err
	}
	dir := filepath.Join(cfg.FinalDir(), batch.SquareDir)
	if err := batch.ClearDir(dir); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}

	header("Creating square images")
	r := canvasrenderer.NewRenderer("")
	composer := compose.New(rc, r, compose.DirSource{Dir: cfg.CutoutDir()}, nil)
	runner := batch.NewRunner(composer, batch.DirStore{}, batch.Options{FinalDir: cfg.FinalDir(), Debug: cfg.Debug})
	rep, err := runner.Square(cmd.Context(), products)
	if err != nil {
		return err
	}
	summarize(rep)
	return nil
}
