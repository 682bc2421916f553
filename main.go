package main

import "github.com/brogergvhs/comicsd/cmd"

func main() {
	cmd.Execute()
}
