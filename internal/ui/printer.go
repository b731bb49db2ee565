package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"CWU/internal/downloader/core"
	"CWU/internal/updater"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	separatorWidth = 50
	blockedHint    = "Note: You may be blocked by CDN. Wait an hour before trying again."
)

// Printer renders the plain-text UI of an update run.
type Printer struct {
	out     io.Writer
	success *color.Color
	info    *color.Color
	warn    *color.Color
	error   *color.Color
}

// NewPrinter constructs a Printer; colour is enabled only for terminal writers.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}

	p := &Printer{
		out:     w,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgBlue, color.Bold),
		warn:    color.New(color.FgYellow),
		error:   color.New(color.FgRed, color.Bold),
	}

	if !supportsColor(w) || os.Getenv("NO_COLOR") != "" {
		p.success.DisableColor()
		p.info.DisableColor()
		p.warn.DisableColor()
		p.error.DisableColor()
	}

	return p
}

// PrintBanner renders the application banner.
func (p *Printer) PrintBanner(title string) {
	p.PrintSeparator("=", separatorWidth)
	p.info.Fprintln(p.out, title)
	p.PrintSeparator("=", separatorWidth)
	fmt.Fprintln(p.out)
}

// PrintSeparator prints a repeated character separator.
func (p *Printer) PrintSeparator(char string, length int) {
	if length <= 0 {
		return
	}
	fmt.Fprintln(p.out, strings.Repeat(char, length))
}

// WriteLine outputs formatted text.
func (p *Printer) WriteLine(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Section(title string) {
	fmt.Fprintln(p.out)
	p.info.Fprintf(p.out, "=== %s ===\n", title)
}

func (p *Printer) DownloadHeader(source, destination string) {
	if source != "" {
		p.WriteLine("Source: %s", source)
	}
	p.WriteLine("Destination: %s", destination)
	fmt.Fprintln(p.out)
}

func (p *Printer) FetchStarted(target core.Target) {
	p.WriteLine("Downloading %s...", target.Name)
}

func (p *Printer) FetchFinished(result core.Result) {
	if result.OK() {
		p.Success("Successfully downloaded %s (%s)", result.Target.Name, humanize.Bytes(uint64(result.Bytes)))
		fmt.Fprintln(p.out)
		return
	}

	switch result.Failure() {
	case core.FailureHTTP:
		p.Failure("HTTP Error %d: %s", result.StatusCode(), result.Err.Message)
		if result.Blocked() {
			p.warn.Fprintf(p.out, "  %s\n", blockedHint)
		}
	case core.FailureNetwork:
		p.Failure("URL Error: %s", result.Err.Cause())
	default:
		p.Failure("Error: %s", result.Err.Cause())
	}
	fmt.Fprintln(p.out)
}

// Success prints a line prefixed with a green check mark.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", p.success.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Failure prints a line prefixed with a red cross.
func (p *Printer) Failure(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", p.error.Sprint("✗"), fmt.Sprintf(format, args...))
}

func (p *Printer) Summary(s updater.Summary) {
	p.PrintSeparator("=", separatorWidth)
	p.WriteLine("Download Summary: %d/%d files successfully downloaded", s.Succeeded, s.Total)
	p.printResultTable(s.Results)

	switch s.Outcome() {
	case updater.OutcomeComplete:
		p.Success("Database update completed successfully!")
		fmt.Fprintln(p.out)
		p.WriteLine("Please restart ClamWin for the changes to take effect.")
	case updater.OutcomePartial:
		p.Failure("Some files failed to download. Please check the errors above.")
		p.WriteLine("Partial update completed. ClamWin may still function with outdated definitions.")
	default:
		p.Failure("Some files failed to download. Please check the errors above.")
	}
}

func (p *Printer) printResultTable(results []core.Result) {
	nameWidth := 0
	for _, r := range results {
		if w := runewidth.StringWidth(r.Target.Name); w > nameWidth {
			nameWidth = w
		}
	}

	for _, r := range results {
		name := runewidth.FillRight(r.Target.Name, nameWidth)
		if r.OK() {
			fmt.Fprintf(p.out, "  %s  %s %s\n", name, p.success.Sprint("✓"), humanize.Bytes(uint64(r.Bytes)))
			continue
		}
		fmt.Fprintf(p.out, "  %s  %s %s\n", name, p.error.Sprint("✗"), r.Failure())
	}
}

func supportsColor(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
