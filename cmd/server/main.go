package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const serviceName = "presence"

func main() {
	_ = godotenv.Load()

	logger := newLogger()

	app := &cli.App{
		Name:  serviceName,
		Usage: "online users presence API",
		Commands: []*cli.Command{
			serveCommand(logger),
			sweepCommand(logger),
			issueTokenCommand(logger),
			revokeSessionsCommand(logger),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("presence exited with error")
	}
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}
