package main

import (
	"os"

	"github.com/anaslari23/Stock-predictor/cmd/predictor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
