package main

import (
	"fmt"
	"os"

	"github.com/ignatzorin/wallet-gateway/cmd/walletctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd(cmd.LoadApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
