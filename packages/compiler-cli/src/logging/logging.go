// Package logging configures the global zerolog logger used by the
// compiler and the driver.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger to write to stderr. Pretty output is
// a human readable console format; otherwise one JSON object per line.
func Setup(level string, pretty bool) error {
	return SetupWriter(os.Stderr, level, pretty)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(w io.Writer, level string, pretty bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
