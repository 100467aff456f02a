// Command topfiles reports the largest files in a directory tree.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/topfiles/internal/cli"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
