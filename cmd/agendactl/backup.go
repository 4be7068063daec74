package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Take an on-demand backup snapshot",
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

		name, err := service.Backup(cmd.Context())
		if err != nil {
			fatal("Backup failed", err)
		}

		fmt.Printf("Backup creado: %s\n", name)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
