package main

import (
	"os"

	"github.com/rentaropy/streamlit-desktop-app/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
