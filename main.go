package main

import "github.com/cmmoran/dtogen/cmd"

var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
