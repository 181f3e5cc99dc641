package main

import "github.com/notargets/goporous/cmd"

func main() {
	cmd.Execute()
}
