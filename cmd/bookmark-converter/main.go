package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/DiasPedroQA/bookmark-converter/internal/cli"
)

func main() {
	// Local .env is optional, absence is not an error.
	_ = godotenv.Load()

	os.Exit(cli.Run(os.Args[1:]))
}
