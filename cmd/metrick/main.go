package main

import "github.com/charislam/metrick/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
