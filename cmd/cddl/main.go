// Command cddl validates a JSON or CBOR document against a CDDL schema
// (spec §6 "External Interfaces").
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
