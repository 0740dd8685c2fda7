package main

import (
	"os"

	"github.com/msto63/noloop/cmd/noloop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
