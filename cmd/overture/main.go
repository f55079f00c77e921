// Package main is the entry point for the overture CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/overture/cmd/overture/commands"
	"github.com/thoreinstein/overture/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		code := errors.ExitUser

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, exitErr.Suggestion)
				os.Exit(code)
			}
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}
