// ABOUTME: Entry point for woodshed CLI.
// ABOUTME: Invokes the root Cobra command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
