// Command regiontext converts world saves to and from a version-control
// friendly JSON layout.
package main

import (
	"fmt"
	"os"

	"github.com/voxelfs/regiontext/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "regiontext: %v\n", err)
		os.Exit(1)
	}
}
