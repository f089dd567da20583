package main

import "github.com/vampirenirmal/storyteller/internal/cli"

func main() {
	cli.Execute()
}
