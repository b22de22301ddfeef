package main

import (
	"os"

	"github.com/evalf/runview/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
