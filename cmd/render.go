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

var flagSkipDownload bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compose three-up flyers for every mode and price variant",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&flagSkipDownload, "skip-download", false, "reuse the cutouts of a previous run")
}

func runRender(cmd *cobra.Command, _ []string) error {
	products, err := loadProducts()
	if err != nil {
		return err
	}
	if !flagSkipDownload {
		if _, err := prepare(cmd.Context(), products); err != nil {
			return err
		}
	}
	rc, err := assets.Load(assets.Options{
		Dir:     cfg.TemplatesDir,
		Today:   cfg.Today,
		Fonts:   cfg.Fonts(),
		ThreeUp: true,
	})
	if err != nil {
		return err
	}
	for _, m := range layout.Modes() {
		dir := filepath.Join(cfg.FinalDir(), string(m))
		if err := batch.ClearDir(dir); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}

	header("Creating final images")
	r := canvasrenderer.NewRenderer("")
	composer := compose.New(rc, r, compose.DirSource{Dir: cfg.CutoutDir()}, nil)
	runner := batch.NewRunner(composer, batch.DirStore{}, batch.Options{FinalDir: cfg.FinalDir(), Debug: cfg.Debug})
	rep, err := runner.ThreeUp(cmd.Context(), products, layout.Variants())
	if err != nil {
		return err
	}
	summarize(rep)
	return nil
}

func summarize(rep batch.Report) {
	for _, w := range reportWarnings(rep) {
		warn("%s", w)
	}
	done("%d flyers saved in %s", len(rep.Written), cfg.FinalDir())
}

// reportWarnings lists the skips of a run; details for each record are in the log.
func reportWarnings(rep batch.Report) []string {
	var out []string
	if rep.SkippedGroups > 0 {
		out = append(out, fmt.Sprintf("%d groups skipped for missing prices", rep.SkippedGroups))
	}
	if rep.SkippedRecords > 0 {
		out = append(out, fmt.Sprintf("%d records skipped", rep.SkippedRecords))
	}
	if rep.EmptyFlyers > 0 {
		out = append(out, fmt.Sprintf("%d flyers not written, no card could be composed", rep.EmptyFlyers))
	}
	return out
}
