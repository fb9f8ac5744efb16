package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/wallet"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [message] [signature] [address]",
	Short: "Check that a signature over message recovers to address",
	Long:  `Prints "valid" and exits 0, or prints "invalid" and exits 1. Malformed input is invalid.`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		if wallet.VerifySignature(args[0], args[1], args[2]) {
			fmt.Println("valid")
			return
		}
		if recovered, err := wallet.RecoverAddress(args[0], args[1]); err == nil {
			fmt.Fprintf(os.Stderr, "signature recovers to %s\n", recovered.Hex())
		}
		fmt.Println("invalid")
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
