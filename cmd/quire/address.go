package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/wallet"
)

var addressKey bool

var addressCmd = &cobra.Command{
	Use:   "address [address|private-key]",
	Short: "Validate and normalize a wallet address",
	Long: `Prints the canonical lowercase form of an address, or exits 1 if it is malformed.
With --key the argument is a private key and its address is printed instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if addressKey {
			key, err := wallet.ParsePrivateKey(args[0])
			if err != nil {
				fatal("Invalid private key", err)
			}
			fmt.Println(wallet.AddressOf(key))
			return
		}

		if !wallet.IsValidAddress(args[0]) {
			fmt.Fprintln(os.Stderr, "invalid address")
			os.Exit(1)
		}
		fmt.Println(wallet.NormalizeAddress(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.Flags().BoolVar(&addressKey, "key", false, "Treat the argument as a hex private key")
}
