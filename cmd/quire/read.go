package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	readJSON   bool
	readWallet string
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a note",
	Long:  `Read a note by its ID on behalf of --wallet. Outputs the content by default, or the full note with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Error loading config", err)
		}
		svc, err := openService(cfg, slog.Default())
		if err != nil {
			fatal("Error opening store", err)
		}
		defer closeService(svc)

		note, err := svc.GetNote(context.Background(), args[0], readWallet)
		if err != nil {
			fatal("Error reading note", err)
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		fmt.Print(note.Content)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
	readCmd.Flags().StringVar(&readWallet, "wallet", "", "Wallet address that owns the note")
}
