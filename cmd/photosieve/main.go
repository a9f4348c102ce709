package main

import (
	"os"

	"github.com/kvnsw/photosieve/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
