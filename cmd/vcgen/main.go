// Command vcgen is a small driver over the verification core: it reads a
// program's JSON IR, runs every procedure's VC and the top-level program's
// VC through z3, and prints a report. It exists to exercise the library
// packages end to end, not as a front-end for the source language itself —
// see internal/ir/json.go for the wire format it expects.
package main

import (
	"os"

	"github.com/lhaig/vcgen/cmd/vcgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
