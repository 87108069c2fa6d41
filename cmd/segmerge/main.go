// Command segmerge inspects and converts segmentation mergelists and
// annotation archives.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
