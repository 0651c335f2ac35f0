// Package observability sets up logging and tracing for the console.
package observability

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON zerolog logger at the given level. Unknown
// levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
