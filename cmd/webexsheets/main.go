package main

import (
	"webexsheets/commands"
)

func main() {
	commands.Execute()
}
