package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/avolkers/sqlgate/internal/cli"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(sqlgate.ExitPanic)
		}
	}()

	if os.Getenv("SQLGATE_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(sqlgate.ExitCodeForError(err))
	}
}
