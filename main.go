package main

import (
	"fmt"
	"os"

	"github.com/liquidonate/weekly-lights/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
