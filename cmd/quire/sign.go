package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/wallet"
)

// privateKeyEnv is read when --key is not given.
const privateKeyEnv = "QUIRE_PRIVATE_KEY"

var signKey string

var signCmd = &cobra.Command{
	Use:   "sign [message]",
	Short: "Sign a message the way wallets do (personal_sign)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hexKey := signKey
		if hexKey == "" {
			hexKey = os.Getenv(privateKeyEnv)
		}
		if hexKey == "" {
			fatal("No key", fmt.Errorf("pass --key or set %s", privateKeyEnv))
		}

		key, err := wallet.ParsePrivateKey(hexKey)
		if err != nil {
			fatal("Invalid private key", err)
		}
		sig, err := wallet.SignMessage(args[0], key)
		if err != nil {
			fatal("Failed to sign", err)
		}
		fmt.Println(sig)
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVar(&signKey, "key", "", "Hex private key (default $"+privateKeyEnv+")")
}
