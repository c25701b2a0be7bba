package main

import "github.com/jengzang/livestock-atlas-go/internal/cli"

func main() {
	cli.Execute()
}
