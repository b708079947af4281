package main

import (
	"os"
	_ "time/tzdata"

	"stock_forecast/cmd/simulate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
