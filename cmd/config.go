package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nildiert/checho/layout"
)

// Environment variables read after .env is loaded; flags override them.
const (
	envBaseDir      = "CHECHO_BASE_DIR"
	envTemplatesDir = "CHECHO_TEMPLATES_DIR"
	envSheet        = "CHECHO_SHEET"
	envFont         = "CHECHO_FONT"
	envSquareMode   = "CHECHO_SQUARE_MODE"
	envWorkers      = "CHECHO_WORKERS"
	envPreviewAddr  = "CHECHO_PREVIEW_ADDR"
)

// Config is the resolved configuration of one run.
type Config struct {
	BaseDir      string
	TemplatesDir string
	Sheet        string
	Font         string // optional TTF path; bundled Go fonts when empty
	SquareMode   layout.Mode
	Workers      int
	PreviewAddr  string
	Today        time.Time
	Debug        bool
}

// DownloadDir holds the raw downloaded photos.
func (c Config) DownloadDir() string { return filepath.Join(c.BaseDir, "downloaded") }

// CutoutDir holds the background-removed cutouts.
func (c Config) CutoutDir() string { return filepath.Join(c.BaseDir, "no_background") }

// FinalDir holds the written flyers.
func (c Config) FinalDir() string { return filepath.Join(c.BaseDir, "final") }

// ErrorLogPath is the download/background-removal failure log.
func (c Config) ErrorLogPath() string { return filepath.Join(c.BaseDir, "error_log.txt") }

// Fonts returns the label fonts for the run.
func (c Config) Fonts() layout.Fonts {
	if c.Font != "" {
		return layout.FontsFromFile(c.Font)
	}
	return layout.DefaultFonts()
}

func defaultConfig() Config {
	return Config{
		BaseDir:      "images",
		TemplatesDir: "templates",
		Sheet:        "promos.csv",
		SquareMode:   layout.Light,
		Workers:      4,
		PreviewAddr:  ":8080",
	}
}

// configFromEnv overlays non-empty variables on the defaults.
func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := defaultConfig()
	for key, dst := range map[string]*string{
		envBaseDir:      &cfg.BaseDir,
		envTemplatesDir: &cfg.TemplatesDir,
		envSheet:        &cfg.Sheet,
		envFont:         &cfg.Font,
		envPreviewAddr:  &cfg.PreviewAddr,
	} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	if v := strings.TrimSpace(getenv(envSquareMode)); v != "" {
		m, err := layout.ParseMode(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", envSquareMode, err)
		}
		cfg.SquareMode = m
	}
	if v := strings.TrimSpace(getenv(envWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: want a positive integer, got %q", envWorkers, v)
		}
		cfg.Workers = n
	}
	return cfg, nil
}

// parseToday reads a dd/mm/yyyy date; empty means now.
func parseToday(s string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return now(), nil
	}
	t, err := time.ParseInLocation(layout.DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today: want dd/mm/yyyy: %w", err)
	}
	return t, nil
}

// resolveFont makes a configured font path absolute and checks it is readable. Empty means bundled fonts.
func resolveFont(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("font %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("font: %w", err)
	}
	f.Close()
	return abs, nil
}

func lookupEnv(key string) string { return os.Getenv(key) }
