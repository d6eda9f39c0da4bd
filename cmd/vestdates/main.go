package main

import "github.com/alechenninger/vestdates/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
