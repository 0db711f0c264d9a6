// Package tracing provides logging decorators for producers and
// consumers. A decorator wraps any Serializer or Deserializer and emits
// a structured debug entry for every protocol call, plus an error entry
// when a call fails. Nested sessions and payloads stay traced: the
// decorators re-wrap every serializer or deserializer handed out by the
// wrapped value before user callbacks see it.
//
// Tracing is for diagnosing format implementations and value mappings.
// It is not meant to stay on in hot paths.
package tracing

import (
	"github.com/nimburion/serde/pkg/observability/logger"
)

func orNop(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NewNop()
	}
	return log
}
