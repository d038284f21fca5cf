package main

import "github.com/montanha-viva/mv-cli/cmd/montanha/cmd"

func main() {
	cmd.Execute()
}
