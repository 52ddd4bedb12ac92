package main

import (
	"os"

	"github.com/mmynk/dangidongi/cmd/dongi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
