// Package main is the entry point of the NetworkTools chat bot.
package main

import "github.com/BakaBotTeam/NetworkTools/internal/cmd"

func main() {
	cmd.Main()
}
