package main

import "github.com/soomrack/MR2024-sub003/cmd/mtree/cmd"

var (
	// Version is the version of the binary, set at link time.
	Version = "v0.0.0-dev"

	// Commit is the commit hash of the binary, set at link time.
	Commit = ""
)

func main() {
	cmd.Version = Version
	cmd.Commit = Commit
	cmd.Execute()
}
