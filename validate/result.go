// Package validate checks finished schema objects against structural
// rules, per-type property constraints, and value formats.
package validate

// Result accumulates the outcome of one validation pass. Any error makes
// the schema invalid; warnings are advisory and do not affect validity.
type Result struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors accumulated.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a warning message.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge folds another result's errors and warnings into this one,
// preserving order.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
