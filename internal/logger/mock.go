package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLogger records log entries in memory for assertions in tests.
type MockLogger struct {
	mu      sync.Mutex
	entries []MockEntry
	level   Level
}

// MockEntry stores a single log emission.
type MockEntry struct {
	Level   Level
	Message string
	Fields  []Field
}

// NewMockLogger creates a MockLogger with the lowest log level.
func NewMockLogger() *MockLogger {
	return &MockLogger{level: LevelDebug}
}

func (m *MockLogger) Debug(format string, args ...interface{}) { m.log(LevelDebug, format, args...) }
func (m *MockLogger) Info(format string, args ...interface{})  { m.log(LevelInfo, format, args...) }
func (m *MockLogger) Warn(format string, args ...interface{})  { m.log(LevelWarn, format, args...) }
func (m *MockLogger) Error(format string, args ...interface{}) { m.log(LevelError, format, args...) }

func (m *MockLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	m.logContext(ctx, LevelDebug, msg, fields...)
}

func (m *MockLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	m.logContext(ctx, LevelInfo, msg, fields...)
}

func (m *MockLogger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	m.logContext(ctx, LevelWarn, msg, fields...)
}

func (m *MockLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	m.logContext(ctx, LevelError, msg, fields...)
}

// With returns the same mock logger to capture subsequent entries.
func (m *MockLogger) With(fields ...Field) Logger {
	return m
}

func (m *MockLogger) SetLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *MockLogger) GetLevel() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *MockLogger) log(level Level, format string, args ...interface{}) {
	m.record(MockEntry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (m *MockLogger) logContext(ctx context.Context, level Level, msg string, fields ...Field) {
	all := append(traceFieldsFromContext(ctx), fields...)
	m.record(MockEntry{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) record(entry MockEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.Level < m.level {
		return
	}
	m.entries = append(m.entries, entry)
}

// GetEntries returns a copy of all stored entries.
func (m *MockLogger) GetEntries() []MockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockEntry(nil), m.entries...)
}

// HasEntry reports whether an entry with the provided level contains the substring.
func (m *MockLogger) HasEntry(level Level, substring string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.entries {
		if entry.Level == level && strings.Contains(entry.Message, substring) {
			return true
		}
	}
	return false
}

// CountEntries counts entries recorded with the supplied level.
func (m *MockLogger) CountEntries(level Level) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, entry := range m.entries {
		if entry.Level == level {
			count++
		}
	}
	return count
}
