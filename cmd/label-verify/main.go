package main

import (
	"github.com/ironsheep/label-verify/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.SetBuildInfo(Version, GitCommit, BuildTime)
	cli.Execute()
}
