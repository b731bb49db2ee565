package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const timestampFormat = "15:04:05"

// Formatter converts log entries to their textual representation.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Entry represents a single log record.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
}

// ConsoleFormatter renders `15:04:05 [LEVEL] message key=value`. With Colors set the
// level is coloured and fields are dimmed, whatever the global colour setting says.
type ConsoleFormatter struct {
	Colors bool
}

// Format converts the Entry into its console representation.
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	level := entry.Level.String()
	if f.Colors {
		if c := levelColor(entry.Level); c != nil {
			c.EnableColor()
			level = c.Sprint(level)
		}
	}

	faint := color.New(color.Faint)
	if f.Colors {
		faint.EnableColor()
	}
	fieldText := func(field Field) string {
		text := fmt.Sprintf("%s=%v", field.Key, field.Value)
		if f.Colors {
			return faint.Sprint(text)
		}
		return text
	}

	return formatEntry(entry, entry.Time.Format(timestampFormat), level, fieldText), nil
}

func levelColor(level Level) *color.Color {
	switch level {
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgBlue)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed)
	default:
		return nil
	}
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

// formatEntry lays out "[timestamp ][LEVEL] message k=v...\n"; an empty timestamp is omitted.
func formatEntry(entry *Entry, timestamp, levelText string, field func(Field) string) []byte {
	var buf bytes.Buffer

	if timestamp != "" {
		buf.WriteString(timestamp)
		buf.WriteString(" ")
	}

	buf.WriteString("[")
	buf.WriteString(levelText)
	buf.WriteString("] ")
	buf.WriteString(entry.Message)

	for _, f := range entry.Fields {
		buf.WriteString(" ")
		buf.WriteString(field(f))
	}

	buf.WriteString("\n")
	return buf.Bytes()
}
