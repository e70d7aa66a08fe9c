package main

import (
	"os"

	"github.com/ayvazoglu/title-catalog/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
