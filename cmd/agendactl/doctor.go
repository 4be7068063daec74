package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify the environment",
	Long:  `Check that the data file, backup directory and history log are present, readable and valid.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}

		report := agenda.Doctor(cfg)

		if doctorJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Failed to encode report", err)
			}
		} else {
			fmt.Printf("Go: %s\n", report.GoVersion)
			for _, check := range report.Checks {
				mark := "OK "
				if !check.OK {
					mark = "FAIL"
				}
				fmt.Printf("[%s] %s: %s\n", mark, check.Name, check.Detail)
			}
		}

		if !report.Healthy {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output in JSON format")
}
