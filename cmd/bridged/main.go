package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Msg(eris.ToString(err, true))
		os.Exit(1)
	}
}
