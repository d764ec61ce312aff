// Package logx builds the zerolog loggers used by the commands.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level ("debug", "info", ...). Console
// output is human readable with a short caller; otherwise each event is one JSON line.
func New(level string, console bool) (zerolog.Logger, error) {
	return NewTo(os.Stderr, level, console)
}

func NewTo(w io.Writer, level string, console bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		shortCallerOnce.Do(func() { zerolog.CallerMarshalFunc = shortCaller })
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger(), nil
}

// CallerMarshalFunc is global to zerolog; it is installed once.
var shortCallerOnce sync.Once

func shortCaller(pc uintptr, file string, line int) string {
	short := file
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		short = file[i+1:]
	}
	// padded so messages line up
	return fmt.Sprintf("%-24s", fmt.Sprintf("%s:%d", short, line))
}
