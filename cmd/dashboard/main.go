package main

import (
	"github.com/joho/godotenv"

	"github.com/EkantikCapitalAdvisors/Dashboard/cli"
)

func main() {
	// Store credentials usually live in a .env next to the binary; absence
	// is fine, local-only mode needs nothing.
	_ = godotenv.Load()

	cli.Execute()
}
