package main

import "github.com/andrescamacho/npc-economy/internal/adapters/cli"

func main() {
	cli.Execute()
}
