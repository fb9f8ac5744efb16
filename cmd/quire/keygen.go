package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/wallet"
)

var keygenJSON bool

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a development wallet key",
	Long:  `Generate a secp256k1 key and print its address. Intended for local testing only.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := wallet.GenerateKey()
		if err != nil {
			fatal("Failed to generate key", err)
		}

		out := struct {
			Address    string `json:"address"`
			PrivateKey string `json:"private_key"`
		}{wallet.AddressOf(key), wallet.EncodePrivateKey(key)}

		if keygenJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		fmt.Printf("address:     %s\nprivate key: %s\n", out.Address, out.PrivateKey)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().BoolVar(&keygenJSON, "json", false, "Output in JSON format")
}
