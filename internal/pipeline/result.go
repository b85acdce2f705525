package pipeline

import "fmt"

// Result tracks counts and errors from one stage run.
type Result struct {
	Processed int // entities handled in this run
	Resumed   int // entities skipped because a checkpoint already covers them
	Kept      int // entities written to the stage output
	Errors    []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the stage run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"processed=%d resumed=%d kept=%d errors=%d",
		r.Processed, r.Resumed, r.Kept, len(r.Errors),
	)
}
