package main

import (
	"os"

	"github.com/Iron-Ham/fintrack/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
