package updater

import "CWU/internal/downloader/core"

// Outcome condenses a run into one of three user-facing states.
type Outcome int

const (
	OutcomeComplete Outcome = iota
	OutcomePartial
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomePartial:
		return "partial"
	default:
		return "failed"
	}
}

// Summary tallies the results of a run.
type Summary struct {
	Succeeded int
	Total     int
	Results   []core.Result
}

// Summarize reduces per-target results into a Summary.
func Summarize(results []core.Result) Summary {
	s := Summary{Total: len(results), Results: results}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		}
	}
	return s
}

// OK reports whether every target was downloaded.
func (s Summary) OK() bool {
	return s.Succeeded == s.Total
}

// Outcome classifies the run; a run with some but not all targets downloaded is partial.
func (s Summary) Outcome() Outcome {
	switch {
	case s.OK():
		return OutcomeComplete
	case s.Succeeded > 0:
		return OutcomePartial
	default:
		return OutcomeFailed
	}
}

// ExitCode maps the summary to the process exit status.
func (s Summary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}
