package main

import (
	"os"

	"github.com/Quinntas/max/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
