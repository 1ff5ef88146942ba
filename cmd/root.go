package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg Config

	flagBaseDir      string
	flagTemplatesDir string
	flagSheet        string
	flagFont         string
	flagToday        string
	flagDebug        bool
)

var rootCmd = &cobra.Command{
	Use:   "checho",
	Short: "Generate promotional product flyers from a product sheet",
	Long: `checho downloads product photos listed in a sheet, removes their backgrounds and composes
three-up and square promotional flyers with price, sizes and delivery banners.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseDir, "base-dir", "", "working directory for downloads, cutouts and flyers (env "+envBaseDir+")")
	pf.StringVar(&flagTemplatesDir, "templates", "", "directory with card, template and logo assets (env "+envTemplatesDir+")")
	pf.StringVarP(&flagSheet, "sheet", "s", "", "product sheet exported as CSV (env "+envSheet+")")
	pf.StringVar(&flagFont, "font", "", "TTF font for every label (env "+envFont+")")
	pf.StringVar(&flagToday, "today", "", "date used for the validity banner, dd/mm/yyyy (default: current date)")
	pf.BoolVar(&flagDebug, "debug", false, "write each flyer's scene as JSON next to it")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(squareCmd)
	rootCmd.AddCommand(previewCmd)
}

// loadConfig resolves .env, then the environment, then flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}
	c, err := configFromEnv(lookupEnv)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		c.BaseDir = flagBaseDir
	}
	if flags.Changed("templates") {
		c.TemplatesDir = flagTemplatesDir
	}
	if flags.Changed("sheet") {
		c.Sheet = flagSheet
	}
	if flags.Changed("font") {
		c.Font = flagFont
	}
	if c.Font, err = resolveFont(c.Font); err != nil {
		return err
	}
	c.Debug = flagDebug
	c.Today, err = parseToday(flagToday, time.Now)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
