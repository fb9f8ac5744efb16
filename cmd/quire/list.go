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
	listJSON   bool
	listWallet string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes of a wallet",
	Args:  cobra.NoArgs,
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

		notes, err := svc.ListNotes(context.Background(), listWallet)
		if err != nil {
			fatal("Error listing notes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, n := range notes {
			fmt.Printf("%s - %s\n", n.ID, n.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listWallet, "wallet", "", "Wallet address whose notes are listed")
	_ = listCmd.MarkFlagRequired("wallet")
}
