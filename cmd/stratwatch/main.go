package main

import (
	"os"

	"github.com/rustyeddy/stratwatch/cmd/stratwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
