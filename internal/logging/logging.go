// Package logging builds the zerolog logger both binaries share, standing
// in for the original ceremony's env_logger/ansi_term formatter
// (original_source/src/coordinator.rs main()), which colored each line by
// level and prefixed it with elapsed time since process start.
package logging

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console-writer logger whose every line is prefixed with
// elapsed time since start in the form "T+XhYmZs", standing in for the
// original's "[T+Xh Ym Zs]" formatter. Level colors come from zerolog's console writer, matching
// the original's ansi_term palette (yellow warn, red error).
func New(w io.Writer, start time.Time) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	cw.FormatTimestamp = func(i interface{}) string {
		return elapsed(start)
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// Default builds a logger writing to stderr, starting the elapsed clock
// now.
func Default() zerolog.Logger {
	return New(os.Stderr, time.Now())
}

func elapsed(start time.Time) string {
	d := time.Since(start)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return "T+" + strconv.Itoa(h) + "h" + strconv.Itoa(m) + "m" + strconv.Itoa(s) + "s"
}
