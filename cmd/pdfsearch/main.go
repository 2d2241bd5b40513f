// Package main provides the entry point for the pdfsearch CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/Asaad47/pdf-search/cmd/pdfsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// A user interrupt is a normal exit, not a failure.
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
