package main

import "recipe-finder/internal/cli"

func main() {
	cli.Execute()
}
