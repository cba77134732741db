package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/eds/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// Commands have already written coded errors to stdout; this catches
		// usage errors and anything that slipped past them.
		fmt.Fprintln(os.Stderr, "eds:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
