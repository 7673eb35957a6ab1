package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/ldmcsv/internal/cli"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(ldmcsv.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(ldmcsv.ExitCodeForError(err))
	}
}
