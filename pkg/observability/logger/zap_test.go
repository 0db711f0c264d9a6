package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "json format with debug level",
			config: Config{
				Level:  DebugLevel,
				Format: JSONFormat,
			},
			wantErr: false,
		},
		{
			name: "text format with info level",
			config: Config{
				Level:  InfoLevel,
				Format: TextFormat,
			},
			wantErr: false,
		},
		{
			name: "json format with warn level",
			config: Config{
				Level:  WarnLevel,
				Format: JSONFormat,
			},
			wantErr: false,
		},
		{
			name: "json format with error level",
			config: Config{
				Level:  ErrorLevel,
				Format: JSONFormat,
			},
			wantErr: false,
		},
		{
			name: "default to info level for invalid level",
			config: Config{
				Level:  "invalid",
				Format: JSONFormat,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewZapLogger(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewZapLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("NewZapLogger() returned nil logger")
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}

func TestZapLogger_LogLevels(t *testing.T) {
	tests := []struct {
		name     string
		logLevel LogLevel
		logFunc  func(Logger)
		expected bool // whether log should appear
	}{
		{
			name:     "debug level logs debug",
			logLevel: DebugLevel,
			logFunc:  func(l Logger) { l.Debug("debug message") },
			expected: true,
		},
		{
			name:     "info level does not log debug",
			logLevel: InfoLevel,
			logFunc:  func(l Logger) { l.Debug("debug message") },
			expected: false,
		},
		{
			name:     "info level logs info",
			logLevel: InfoLevel,
			logFunc:  func(l Logger) { l.Info("info message") },
			expected: true,
		},
		{
			name:     "warn level does not log info",
			logLevel: WarnLevel,
			logFunc:  func(l Logger) { l.Info("info message") },
			expected: false,
		},
		{
			name:     "warn level logs warn",
			logLevel: WarnLevel,
			logFunc:  func(l Logger) { l.Warn("warn message") },
			expected: true,
		},
		{
			name:     "error level does not log warn",
			logLevel: ErrorLevel,
			logFunc:  func(l Logger) { l.Warn("warn message") },
			expected: false,
		},
		{
			name:     "error level logs error",
			logLevel: ErrorLevel,
			logFunc:  func(l Logger) { l.Error("error message") },
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewZapLogger(Config{
				Level:  tt.logLevel,
				Format: JSONFormat,
				Output: &buf,
			})
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}
			defer logger.Sync()

			tt.logFunc(logger)
			_ = logger.Sync()

			if got := buf.Len() > 0; got != tt.expected {
				t.Errorf("output present = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestZapLogger_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(Config{
		Level:  InfoLevel,
		Format: JSONFormat,
		Output: &buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("test message",
		"key1", "value1",
		"key2", 42,
		"key3", true,
	)
	_ = logger.Sync()

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}
	if logEntry["key1"] != "value1" {
		t.Errorf("key1 = %v, want value1", logEntry["key1"])
	}
	if logEntry["key2"] != float64(42) {
		t.Errorf("key2 = %v, want 42", logEntry["key2"])
	}
	if logEntry["key3"] != true {
		t.Errorf("key3 = %v, want true", logEntry["key3"])
	}
}

func TestZapLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(Config{
		Level:  InfoLevel,
		Format: JSONFormat,
		Output: &buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	childLogger := logger.With("service", "test-service", "version", "1.0.0")
	childLogger.Info("child logger message")
	_ = logger.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}
	if entry["service"] != "test-service" {
		t.Errorf("service = %v, want test-service", entry["service"])
	}

	// Original logger should not have the additional fields
	buf.Reset()
	logger.Info("original logger message")
	_ = logger.Sync()

	entry = map[string]interface{}{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}
	if _, ok := entry["service"]; ok {
		t.Error("original logger carries child fields")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    LogLevel
		wantErr bool
	}{
		{
			name:    "debug level",
			input:   "debug",
			want:    DebugLevel,
			wantErr: false,
		},
		{
			name:    "info level",
			input:   "info",
			want:    InfoLevel,
			wantErr: false,
		},
		{
			name:    "warn level",
			input:   "warn",
			want:    WarnLevel,
			wantErr: false,
		},
		{
			name:    "warning level (alias)",
			input:   "warning",
			want:    WarnLevel,
			wantErr: false,
		},
		{
			name:    "error level",
			input:   "error",
			want:    ErrorLevel,
			wantErr: false,
		},
		{
			name:    "invalid level",
			input:   "invalid",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    LogFormat
		wantErr bool
	}{
		{
			name:    "json format",
			input:   "json",
			want:    JSONFormat,
			wantErr: false,
		},
		{
			name:    "text format",
			input:   "text",
			want:    TextFormat,
			wantErr: false,
		},
		{
			name:    "console format (alias)",
			input:   "console",
			want:    TextFormat,
			wantErr: false,
		},
		{
			name:    "invalid format",
			input:   "invalid",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogFormat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLogFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("dropped")
	log.Error("dropped")
	if child := log.With("k", "v"); child == nil {
		t.Error("With returned nil logger")
	}
}

// Benchmark tests
func BenchmarkZapLogger_Info(b *testing.B) {
	logger, _ := NewZapLogger(Config{
		Level:  InfoLevel,
		Format: JSONFormat,
	})
	defer logger.Sync()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}

func BenchmarkZapLogger_WithFields(b *testing.B) {
	logger, _ := NewZapLogger(Config{
		Level:  InfoLevel,
		Format: JSONFormat,
	})
	defer logger.Sync()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message",
			"field1", "value1",
			"field2", 42,
			"field3", true,
			"iteration", i,
		)
	}
}
