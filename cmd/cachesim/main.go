// Package main provides the cachesim command, which replays a Valgrind
// Lackey memory trace against a set-associative LRU cache model.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	// Defaults for the required values may come from a .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		atexit.Exit(1)
	}

	cmd := newRootCmd(os.LookupEnv)
	if err := cmd.Execute(); err != nil {
		var missing *missingArgumentError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, cmd.UsageString())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
