package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ResultLog appends one JSON line per processed screenshot.
type ResultLog struct {
	closer io.Closer
	log    zerolog.Logger
}

// OpenResultLog opens path for appending, creating it when needed.
func OpenResultLog(path string) (*ResultLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open result log: %w", err)
	}
	l := NewResultLog(f)
	l.closer = f
	return l, nil
}

// NewResultLog writes to w.
func NewResultLog(w io.Writer) *ResultLog {
	return &ResultLog{log: zerolog.New(w).With().Timestamp().Logger()}
}

// Result records a successful extraction. result must be a JSON object.
func (l *ResultLog) Result(image, result string) {
	ev := l.log.Info().Str("image", image)
	if json.Valid([]byte(result)) {
		ev = ev.RawJSON("result", []byte(result))
	} else {
		ev = ev.Str("result", result)
	}
	ev.Msg("extracted")
}

// Failure records a screenshot that could not be read.
func (l *ResultLog) Failure(image string, err error, msg string) {
	l.log.Error().Str("image", image).Err(err).Msg(msg)
}

func (l *ResultLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
