package main

import (
	"os"

	"github.com/MaxwellKnight/csvg/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
