// Package main is the entry point for the rcbar CLI.
package main

import (
	"fmt"
	"os"

	"github.com/runger/rcbar/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rcbar: %v\n", err)
		os.Exit(1)
	}
}
