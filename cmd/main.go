// Package main provides the ledger API server and its maintenance commands.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}
