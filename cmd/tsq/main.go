// Command tsq converts Twitter-style search queries to structured
// documents and back.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tsq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tsq:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
