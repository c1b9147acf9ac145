package main

import (
	"os"

	"github.com/solatis/displayrules/cmd/displayrules/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
