package portlog

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// zerologSink adapts a zerolog.Logger to the Logger port. It backs the
// file sink (structured JSON, one record per call, safe to append to
// across a long-running simulation) following
// cmd/pokerforbots/shared.SetupStructuredLogger.
type zerologSink struct {
	log zerolog.Logger
}

// NewFile returns a Logger port implementation writing structured JSON
// lines to w, grounded on shared.SetupStructuredLogger.
func NewFile(w io.Writer, debug bool) Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerologSink{log: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func (s zerologSink) Error(msg string, kv ...any) {
	s.log.Error().Fields(kvFields(kv)).Msg(msg)
}

func (s zerologSink) Info(msg string, kv ...any) {
	s.log.Info().Fields(kvFields(kv)).Msg(msg)
}

// DecisionMaking has no native zerolog level; it's recorded at info with
// a discriminating field so a file sink consumer can filter on it.
func (s zerologSink) DecisionMaking(msg string, kv ...any) {
	s.log.Info().Str("kind", "decision").Fields(kvFields(kv)).Msg(msg)
}

// Verbose sits between info and debug; zerolog's Trace level is the
// closest native fit.
func (s zerologSink) Verbose(msg string, kv ...any) {
	s.log.Trace().Fields(kvFields(kv)).Msg(msg)
}

func (s zerologSink) Debug(msg string, kv ...any) {
	s.log.Debug().Fields(kvFields(kv)).Msg(msg)
}

// kvFields turns a flat (key, value, key, value, ...) variadic into the
// map zerolog's Fields wants, dropping a trailing unpaired key.
func kvFields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return fields
}

var _ Logger = zerologSink{}
