package main

import (
	"os"

	"github.com/westnordost/streets-gl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
