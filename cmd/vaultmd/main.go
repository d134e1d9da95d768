// Package main is the entry point for the vaultmd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/vaultmd/vaultmd/cmd/vaultmd/commands"
	"github.com/vaultmd/vaultmd/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintln(os.Stderr, "Suggestion:", exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(errors.ExitUser)
	}
}
