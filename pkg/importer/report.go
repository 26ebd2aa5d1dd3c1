package importer

import "fmt"

// Failure records one draft that could not be persisted, in original row
// order, for user-facing diagnostics.
type Failure struct {
	Row    int    `json:"row"` // 1-based position in the match result sequence
	Guest  string `json:"guest,omitempty"`
	Reason string `json:"reason"`
}

// Report summarizes one import run. It exists only for the duration of the
// run and is surfaced to the caller, never persisted by the core itself.
type Report struct {
	RunID     string    `json:"run_id"`
	Parsed    int       `json:"parsed"`
	Matched   int       `json:"matched"`
	Unmatched int       `json:"unmatched"`
	Uploaded  int       `json:"uploaded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// IsSuccess reports whether every matched draft was persisted.
func (r *Report) IsSuccess() bool {
	return r.Failed == 0
}

// Summary returns a human-readable summary of the run.
func (r *Report) Summary() string {
	if r.Failed > 0 {
		return fmt.Sprintf("imported %d of %d reservations (%d unmatched, %d failed)",
			r.Uploaded, r.Parsed, r.Unmatched, r.Failed)
	}
	if r.Unmatched > 0 {
		return fmt.Sprintf("imported %d of %d reservations (%d unmatched)",
			r.Uploaded, r.Parsed, r.Unmatched)
	}
	return fmt.Sprintf("imported %d reservations", r.Uploaded)
}

func (r *Report) fail(row int, guest, reason string) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{Row: row, Guest: guest, Reason: reason})
}
