// Command jsbuilder inspects JSON Schema documents: it computes defaults,
// validates instances, splits UI hints and renders Go builder code.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
