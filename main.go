package main

import (
	"github.com/LumeraProtocol/stakesign/cmd"
)

// Set via -ldflags at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	cmd.Execute(Version, GitCommit, BuildTime)
}
