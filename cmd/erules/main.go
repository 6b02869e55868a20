// Command erules structures EASA eRules exports into a locally
// searchable regulation corpus.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/erules-cli/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is fine; the environment may carry the keys.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
