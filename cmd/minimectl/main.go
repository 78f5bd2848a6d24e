package main

import (
	"github.com/sangsom/minime/internal/cli"
)

func main() {
	cli.Execute()
}
