package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
	"github.com/cicraftwork/agenda-fen/pkg/core"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the agenda as CSV",
	Long:  `Write one CSV row per content item, including the week context and an excluded flag.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}

		service, err := agenda.Open(cfg, agenda.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open agenda", err)
		}

		doc, _, err := service.GetDocument(cmd.Context())
		if err != nil {
			fatal("Failed to load agenda", err)
		}

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				fatal("Failed to create output file", err)
			}
			defer f.Close()
			out = f
		}

		if err := core.ExportCSV(out, doc); err != nil {
			fatal("Failed to export CSV", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}
