package main

import "github.com/markmed/fleetman/cmd/fleetman/cmd"

func main() {
	cmd.Execute()
}
