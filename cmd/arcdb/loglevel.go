package main

import (
	"fmt"

	"github.com/rs/zerolog"
)

func parseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid --log-level %q: %w", s, err)
	}
	return level, nil
}
