// Command socstat converts RINEX observation files to SOC containers
// and reports summary statistics.
package main

import (
	"fmt"
	"os"

	"github.com/entrope/srnx/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
