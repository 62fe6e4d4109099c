package utils

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogger configures the process logger. Pretty output is for local
// development; production keeps the default JSON stream.
func InitLogger(level string, pretty bool) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	out := zerolog.New(os.Stdout)
	if pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	logger = out.Level(parsed).With().Timestamp().Logger()
}

func LogDebug(message string) {
	logger.Debug().Msg(message)
}

func LogInfo(message string) {
	logger.Info().Msg(message)
}

func LogWarning(message string) {
	logger.Warn().Msg(message)
}

func LogError(message string, err error) {
	if err != nil {
		logger.Error().Err(err).Msg(message)
	} else {
		logger.Error().Msg(message)
	}
}

func LogFatal(message string, err error) {
	if err != nil {
		logger.Fatal().Err(err).Msg(message)
	} else {
		logger.Fatal().Msg(message)
	}
}
