package main

import (
	"os"

	"github.com/fruitstand-signage/fruitstand/cmd"
	"github.com/fruitstand-signage/fruitstand/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
