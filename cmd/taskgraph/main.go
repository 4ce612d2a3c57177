package main

import (
	"fmt"
	"os"

	"github.com/example/taskgraph/internal/cli"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/wire"
)

// Exit codes.
const (
	exitError       = 1
	exitConsistency = 2
)

func main() {
	err := cli.RootCmd().Execute()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	if tgerrors.IsConsistencyViolation(err) {
		os.Exit(exitConsistency)
	}
	os.Exit(exitError)
}
