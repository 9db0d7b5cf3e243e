// Command partview replays PART particle trajectories.
package main

import (
	"fmt"
	"os"

	"github.com/rmera/partview/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "partview:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
