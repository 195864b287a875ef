package main

import (
	"os"

	"github.com/JiaXinLow/period-poverty-api/cmd/loader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
