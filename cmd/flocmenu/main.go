// Command flocmenu runs the nested menu built on floc flows.
package main

import (
	"fmt"
	"os"

	"github.com/petrijr/floc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
