package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print agenda statistics",
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

		stats, err := service.Statistics(cmd.Context())
		if err != nil {
			fatal("Failed to compute statistics", err)
		}

		if statsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(stats); err != nil {
				fatal("Failed to encode statistics", err)
			}
			return
		}

		fmt.Printf("Semanas: %d  Contenidos: %d (validos %d)\n",
			stats.TotalWeeks, stats.TotalContents, stats.ValidContents)
		fmt.Printf("Completado: %.1f%%  Promedio por semana: %.1f\n",
			stats.CompletedPercentage, stats.AveragePerWeek)
		for _, week := range stats.Weeks {
			fmt.Printf("  Semana %d (%s): %d contenidos, %.1f%% completado\n",
				week.Number, week.Topic, week.Total, week.CompletedPercentage)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
}
