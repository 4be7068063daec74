package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
)

var (
	historyJSON  bool
	historyCount int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the change history, newest first",
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

		records, err := service.History(cmd.Context())
		if err != nil {
			fatal("Failed to list history", err)
		}

		if historyCount > 0 && len(records) > historyCount {
			records = records[:historyCount]
		}

		if historyJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(records); err != nil {
				fatal("Failed to encode history", err)
			}
			return
		}

		for _, rec := range records {
			fmt.Printf("%s  %-20s %s\n", rec.Timestamp, rec.Action, rec.Summary)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	historyCmd.Flags().IntVarP(&historyCount, "limit", "n", 0, "Show at most this many records")
}
