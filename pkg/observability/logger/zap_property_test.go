package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for any log entry, the output is valid JSON containing at
// minimum timestamp, level, and message.
func TestProperty_StructuredLoggingFormat(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genLogLevel := gen.OneConstOf(DebugLevel, InfoLevel, WarnLevel, ErrorLevel)

	genMessage := gen.AlphaString().SuchThat(func(s string) bool {
		return len(s) > 0 && len(s) < 200
	})

	genFieldCount := gen.IntRange(0, 5)

	properties.Property("all log entries are valid JSON with required fields", prop.ForAll(
		func(level LogLevel, message string, fieldCount int) bool {
			var buf bytes.Buffer
			log, err := NewZapLogger(Config{Level: level, Format: JSONFormat, Output: &buf})
			if err != nil {
				t.Logf("NewZapLogger failed: %v", err)
				return false
			}

			var args []interface{}
			for i := 0; i < fieldCount; i++ {
				args = append(args, "field"+string(rune('A'+i)), "value"+string(rune('A'+i)))
			}

			switch level {
			case DebugLevel:
				log.Debug(message, args...)
			case InfoLevel:
				log.Info(message, args...)
			case WarnLevel:
				log.Warn(message, args...)
			case ErrorLevel:
				log.Error(message, args...)
			}

			_ = log.Sync()

			output := buf.String()
			if output == "" {
				// No output means the log level filtered it out
				return true
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
				t.Logf("Failed to parse JSON: %v\nOutput: %s", err, output)
				return false
			}

			requiredFields := []string{"timestamp", "level", "message"}
			for _, field := range requiredFields {
				if _, ok := logEntry[field]; !ok {
					t.Logf("Missing required field: %s\nLog entry: %v", field, logEntry)
					return false
				}
			}

			if logEntry["message"] != message {
				t.Logf("Message mismatch: expected %q, got %q", message, logEntry["message"])
				return false
			}

			expectedLevel := string(level)
			if logEntry["level"] != expectedLevel {
				t.Logf("Level mismatch: expected %q, got %q", expectedLevel, logEntry["level"])
				return false
			}

			if timestamp, ok := logEntry["timestamp"].(string); ok {
				formats := []string{
					time.RFC3339,
					time.RFC3339Nano,
					"2006-01-02T15:04:05.000-0700",
					"2006-01-02T15:04:05.000Z0700",
				}
				parsed := false
				for _, format := range formats {
					if _, err := time.Parse(format, timestamp); err == nil {
						parsed = true
						break
					}
				}
				if !parsed {
					t.Logf("Invalid timestamp format: %s", timestamp)
					return false
				}
			} else {
				t.Logf("Timestamp is not a string: %v", logEntry["timestamp"])
				return false
			}

			return true
		},
		genLogLevel,
		genMessage,
		genFieldCount,
	))

	properties.TestingRun(t)
}

func TestProperty_JSONOutputAlwaysParseable(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genMessage := gen.AlphaString().SuchThat(func(s string) bool {
		return len(s) > 0 && len(s) < 200
	})

	properties.Property("JSON output is always parseable", prop.ForAll(
		func(message string) bool {
			var buf bytes.Buffer
			log, err := NewZapLogger(Config{Level: InfoLevel, Format: JSONFormat, Output: &buf})
			if err != nil {
				return false
			}

			log.Info(message)
			_ = log.Sync()

			output := buf.String()
			if output == "" {
				return true
			}

			var logEntry map[string]interface{}
			return json.Unmarshal([]byte(output), &logEntry) == nil
		},
		genMessage,
	))

	properties.TestingRun(t)
}

// Property: messages below the configured level never reach the output.
func TestProperty_LogLevelFiltering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genConfigLevel := gen.OneConstOf(DebugLevel, InfoLevel, WarnLevel, ErrorLevel)
	genLogLevel := gen.OneConstOf(DebugLevel, InfoLevel, WarnLevel, ErrorLevel)
	genMessage := gen.AlphaString().SuchThat(func(s string) bool {
		return len(s) > 0 && len(s) < 100
	})

	properties.Property("log level filtering works correctly", prop.ForAll(
		func(configLevel LogLevel, logLevel LogLevel, message string) bool {
			var buf bytes.Buffer
			log, err := NewZapLogger(Config{Level: configLevel, Format: JSONFormat, Output: &buf})
			if err != nil {
				return false
			}

			switch logLevel {
			case DebugLevel:
				log.Debug(message)
			case InfoLevel:
				log.Info(message)
			case WarnLevel:
				log.Warn(message)
			case ErrorLevel:
				log.Error(message)
			}

			_ = log.Sync()

			output := buf.String()

			shouldAppear := shouldLogAppear(configLevel, logLevel)
			hasOutput := output != ""

			if shouldAppear != hasOutput {
				t.Logf("Level filtering failed: config=%s, log=%s, shouldAppear=%v, hasOutput=%v",
					configLevel, logLevel, shouldAppear, hasOutput)
				return false
			}

			return true
		},
		genConfigLevel,
		genLogLevel,
		genMessage,
	))

	properties.TestingRun(t)
}

// shouldLogAppear determines if a log at logLevel should appear when logger is configured at configLevel
func shouldLogAppear(configLevel, logLevel LogLevel) bool {
	levels := map[LogLevel]int{
		DebugLevel: 0,
		InfoLevel:  1,
		WarnLevel:  2,
		ErrorLevel: 3,
	}

	return levels[logLevel] >= levels[configLevel]
}
