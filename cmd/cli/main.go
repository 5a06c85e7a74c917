package main

import (
	"github.com/mchmarny/vctl/pkg/cli"
)

func main() {
	cli.Execute()
}
