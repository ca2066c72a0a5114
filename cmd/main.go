package main

import (
	"os"

	"github.com/GhadeBhavesh/QZone/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
