package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-halftone-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	webServer := server.NewServer(*port, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if err := webServer.Start(); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("error starting server")
	}
}
