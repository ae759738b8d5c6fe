package main

import (
	"os"

	"github.com/zeu5/mixing-rl/commands"
)

// main entry point to training, evaluation and the simulator bridge
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
