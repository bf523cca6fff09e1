package main

import (
	"os"

	"fundtrack/cmd/fundtrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
