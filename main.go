// c4 builds, checks and publishes C4 architecture workspaces.
//
// It validates and summarizes workspace documents, exchanges them with a
// remote workspace service and serves them to MCP clients.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/c4-go/api"
	"github.com/Benny93/c4-go/cmd"
)

func main() {
	api.DefaultAgent = "c4-go/" + cmd.Version
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
