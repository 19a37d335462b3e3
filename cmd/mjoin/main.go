// Command mjoin joins two key-sorted delimited text files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/mjoin/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own ExitErrors; anything else (flag
		// parsing, argument counts) is printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "mjoin:", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
