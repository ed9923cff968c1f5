// Package main is the entry point for the livevote CLI.
package main

import (
	"os"

	"github.com/f3rmion/livevote/cmd/livevote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
