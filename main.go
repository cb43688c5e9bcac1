package main

import (
	"os"

	"github.com/yusshu/featherpng/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
