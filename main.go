package main

import "github.com/go-gitversioning/gitversioning/cmd"

func main() {
	cmd.Execute()
}
