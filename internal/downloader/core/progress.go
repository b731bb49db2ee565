package core

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// ProgressReporter receives download progress updates. OnProgress is only called
// when the server announced the total size.
type ProgressReporter interface {
	OnStart(fileName string, totalSize int64)
	OnProgress(fileName string, current, total int64, speed float64)
	OnComplete(fileName string, written int64, elapsed time.Duration)
	OnAbort(fileName string, written int64, err error)
}

// NoopProgressReporter discards all progress events.
type NoopProgressReporter struct{}

func (NoopProgressReporter) OnStart(string, int64)                    {}
func (NoopProgressReporter) OnProgress(string, int64, int64, float64) {}
func (NoopProgressReporter) OnComplete(string, int64, time.Duration)  {}
func (NoopProgressReporter) OnAbort(string, int64, error)             {}

// ConsoleProgressReporter rewrites a single "Progress:" line in place.
type ConsoleProgressReporter struct {
	writer    io.Writer
	width     func() int
	lineWidth int
}

// NewConsoleProgressReporter constructs a ConsoleProgressReporter (defaults to stdout).
func NewConsoleProgressReporter(w io.Writer) *ConsoleProgressReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleProgressReporter{
		writer: w,
		width:  terminalWidth(w),
	}
}

func (c *ConsoleProgressReporter) OnStart(string, int64) {
	c.lineWidth = 0
}

func (c *ConsoleProgressReporter) OnProgress(_ string, current, total int64, speed float64) {
	if total <= 0 {
		return
	}

	percentage := float64(current) / float64(total) * 100
	line := fmt.Sprintf("Progress: %.1f%% (%d/%d bytes, %s/s)",
		percentage, current, total, humanize.Bytes(uint64(speed)))

	if limit := c.width(); limit > 0 {
		line = runewidth.Truncate(line, limit-1, "")
	}
	padded := runewidth.FillRight(line, c.lineWidth)
	c.lineWidth = runewidth.StringWidth(line)

	fmt.Fprintf(c.writer, "\r%s", padded)
}

func (c *ConsoleProgressReporter) OnComplete(string, int64, time.Duration) {
	c.endLine()
}

func (c *ConsoleProgressReporter) OnAbort(string, int64, error) {
	c.endLine()
}

func (c *ConsoleProgressReporter) endLine() {
	if c.lineWidth > 0 {
		fmt.Fprintln(c.writer)
	}
	c.lineWidth = 0
}

func terminalWidth(w io.Writer) func() int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return func() int { return 0 }
	}
	return func() int {
		width, _, err := term.GetSize(int(file.Fd()))
		if err != nil {
			return 0
		}
		return width
	}
}

func transferSpeed(written int64, since time.Time) float64 {
	elapsed := time.Since(since).Seconds()
	if elapsed <= 0 {
		elapsed = 0.001
	}
	return float64(written) / elapsed
}
