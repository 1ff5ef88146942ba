package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nildiert/checho/preview"
)

var flagAddr string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve the written flyers over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := cfg.PreviewAddr
		if flagAddr != "" {
			addr = flagAddr
		}
		header("Serving %s on http://localhost%s", cfg.FinalDir(), addr)
		return preview.Run(addr, cfg.FinalDir())
	},
}

func init() {
	previewCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (env "+envPreviewAddr+")")
}
