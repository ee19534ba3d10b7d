// main.go
//
// krpsim entry point: the run and verify subcommands live in cmd/.

package main

import (
	"github.com/inference-sim/krpsim/cmd"
)

func main() {
	cmd.Execute()
}
