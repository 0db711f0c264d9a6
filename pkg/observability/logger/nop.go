package logger

// NopLogger discards every log entry. It is the default logger for
// library components when no logger is supplied.
type NopLogger struct{}

var _ Logger = NopLogger{}

// NewNop returns a logger that discards everything.
func NewNop() NopLogger { return NopLogger{} }

func (NopLogger) Debug(string, ...any) {}

func (NopLogger) Info(string, ...any) {}

func (NopLogger) Warn(string, ...any) {}

func (NopLogger) Error(string, ...any) {}

func (l NopLogger) With(...any) Logger { return l }
