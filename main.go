package main

import "github.com/essnap/essnap/cmd"

func main() {
	cmd.Execute()
}
