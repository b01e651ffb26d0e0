package main

import (
	"github.com/aunum/log"
	"github.com/samuelfneumann/godqn/commands"
)

func main() {
	if err := commands.GetRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
