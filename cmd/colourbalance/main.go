// colourbalance checks how closely an image follows the 60-30-10 colour rule.
package main

import (
	"os"

	"github.com/jmylchreest/colourbalance/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
