package main

import (
	"github.com/joho/godotenv"

	"capembed/internal/cli"
)

func main() {
	// Provider API keys may live in a local .env; a missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
