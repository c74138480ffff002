package main

import "ros-cross-compile/internal/cli"

func main() {
	cli.Execute()
}
