package main

import (
	"os"

	"github.com/devilmonastery/openproof/cli/internal"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
