package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
)

var (
	verbose    bool
	dataDir    string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agendactl",
	Short: "Administra la agenda semanal de sustentabilidad",
	Long: `agendactl opera sobre una agenda de planificacion semanal guardada
como un unico archivo JSON: servidor REST, estadisticas, backups,
exportacion CSV y diagnostico del entorno.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", ".", "Data directory containing agenda.json")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
}

// loadConfig resolves the effective configuration: the YAML file when given,
// otherwise defaults rooted at --dir.
func loadConfig() (agenda.Config, error) {
	if configPath != "" {
		return agenda.LoadConfig(configPath)
	}
	return agenda.DefaultConfig(dataDir), nil
}
