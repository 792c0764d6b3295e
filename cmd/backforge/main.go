// cmd/backforge/main.go
//
// Entry point for the backforge CLI. All behaviour lives in the cobra
// commands; main only maps a returned error to exit status 1.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kingrea/backforge/internal/tui"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Operation aborted")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
