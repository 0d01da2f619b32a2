package main

import "github.com/bent101/wordle-entropy/cmd"

func main() {
	cmd.Execute()
}
