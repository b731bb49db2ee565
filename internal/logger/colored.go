package logger

import "os"

// NewColoredLogger returns the console logger used by the updater: coloured levels
// when the output is a terminal and NO_COLOR is unset, plain text otherwise.
func NewColoredLogger(options ...Option) *StandardLogger {
	log := NewStandardLogger(options...)
	log.formatter = &ConsoleFormatter{
		Colors: isTerminal(log.output) && os.Getenv("NO_COLOR") == "",
	}
	return log
}
