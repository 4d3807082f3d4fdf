package models

// Verdict is the outcome of validating one record. It feeds the
// accept/reject decision only and is never persisted.
type Verdict struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// AddError records a hard validation failure.
func (v *Verdict) AddError(msg string) {
	v.Errors = append(v.Errors, msg)
	v.Valid = false
}

// AddWarning records a suspicion that does not reject the record.
func (v *Verdict) AddWarning(msg string) {
	v.Warnings = append(v.Warnings, msg)
}

// Merge folds another verdict into this one.
func (v *Verdict) Merge(other Verdict) {
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
	if len(v.Errors) > 0 {
		v.Valid = false
	}
}

// OK returns a passing verdict.
func OK() Verdict { return Verdict{Valid: true} }
