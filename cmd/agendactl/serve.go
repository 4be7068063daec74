package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/internal/httpapi"
	adapterfs "github.com/cicraftwork/agenda-fen/pkg/adapters/fs"
	"github.com/cicraftwork/agenda-fen/pkg/agenda"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agenda REST server",
	Long: `Serve the agenda over HTTP. The document file is watched for edits
made outside the API; each one is logged because a concurrent external
writer can silently overwrite API changes (last writer wins).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}
		if serveListen != "" {
			cfg.Listen = serveListen
		}

		logger := slog.Default()

		service, err := agenda.Open(cfg, agenda.WithLogger(logger))
		if err != nil {
			fatal("Failed to open agenda", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		events, err := adapterfs.WatchDocument(ctx, agenda.StoreConfig(cfg, agenda.WithLogger(logger)))
		if err != nil {
			logger.Warn("document watcher unavailable", "error", err)
		} else {
			go func() {
				for ev := range events {
					logger.Warn("agenda file changed outside the API",
						"type", ev.Type, "path", ev.Path)
				}
			}()
		}

		router := httpapi.NewRouter(httpapi.Config{
			Service: service,
			Logger:  logger,
			Doctor:  func() agenda.DoctorReport { return agenda.Doctor(cfg) },
		})

		logger.Info("serving agenda", "listen", cfg.Listen, "data_file", cfg.DataFile)
		if err := router.Run(cfg.Listen); err != nil {
			fatal("Server stopped", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (overrides config)")
}
