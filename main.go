package main

import "github.com/ccshell/ccsh/cmd"

func main() {
	cmd.Execute()
}
