package main

import "brandintel-backend-go/cmd/brandctl/commands"

func main() {
	commands.Execute()
}
