package main

import "github.com/Digital-Shane/release-lens/internal/cmd"

func main() {
	cmd.Execute()
}
