package main

import "github.com/SupernovaXTS/overmind-logistics/internal/adapters/cli"

func main() {
	cli.Execute()
}
