package main

import (
	"os"

	"github.com/studyhall/studyhall/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
