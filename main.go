package main

import "github.com/nildiert/checho/cmd"

func main() {
	cmd.Execute()
}
