package main

import (
	"os"

	"github.com/rustyeddy/stoploss/cmd/stoploss/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
