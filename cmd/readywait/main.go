package main

import (
	"os"

	"github.com/hamed0406/readywait/cmd/readywait/app"
)

func main() {
	if err := app.NewReadywaitCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
