package main

import "github.com/itsmostafa/gokernel/cmd"

func main() {
	cmd.Execute()
}
