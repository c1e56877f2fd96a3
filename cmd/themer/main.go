// themer - desktop colour theme generator
//
// themer derives a terminal palette from an Xresources colour file, a
// sweyla.com theme or an image, and renders template sets with it.
package main

import (
	"os"

	"github.com/jmylchreest/themer/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
