package main

import "github.com/swarmlab/accord/internal/cli"

func main() {
	cli.Execute()
}
