package main

import (
	"github.com/dropfour/dropfour/internal/cli"
)

func main() {
	cli.Execute()
}
