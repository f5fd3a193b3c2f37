package main

import "github.com/HectorLobatoSilva/lapce/cmd/lapce-updater/cmd"

func main() {
	cmd.Execute()
}
