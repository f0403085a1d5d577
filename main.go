package main

import "github.com/Tiliavir/cafe-core/cmd"

func main() {
	cmd.Execute()
}
