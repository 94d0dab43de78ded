package main

import (
	"os"

	"github.com/lumina-learn/lumina/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
