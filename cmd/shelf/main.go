// Command shelf manages an embedded JSON document store from the command line.
package main

import "github.com/mesh-intelligence/shelf/internal/cli"

func main() {
	cli.Execute()
}
