package main

import (
	"fmt"
	"os"

	"github.com/mrakbook/whyx/cmd"

	// Instrumented demo target, compiled in so `whyx run lab/demo.go` works
	// out of the box.
	_ "github.com/mrakbook/whyx/lab"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
