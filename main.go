// Idiomatic entrypoint for the Cobra CLI that delegates handling to the
// Cobra root command in cmd/root.go.

package main

import (
	"github.com/anirudhsk/meshtrace/cmd"
)

func main() {
	cmd.Execute()
}
