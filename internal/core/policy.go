package core

import (
	"fmt"
	"strings"
)

const (
	PolicyLenient = "lenient"
	PolicyStrict  = "strict"
)

// ValidationPolicy decides what is rejected before a record is appended.
// The zero value accepts everything and stores it verbatim.
type ValidationPolicy struct {
	RequireCanonicalDate  bool
	RejectNegativeAmounts bool
	RestrictCategories    bool
}

// PolicyByName returns the policy for "lenient" (default when empty) or "strict".
func PolicyByName(name string) (ValidationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyLenient:
		return ValidationPolicy{}, nil
	case PolicyStrict:
		return ValidationPolicy{
			RequireCanonicalDate:  true,
			RejectNegativeAmounts: true,
			RestrictCategories:    true,
		}, nil
	default:
		return ValidationPolicy{}, fmt.Errorf("unknown validation policy %q: must be %s or %s", name, PolicyLenient, PolicyStrict)
	}
}

// IsLenient reports whether the policy accepts every record.
func (p ValidationPolicy) IsLenient() bool {
	return p == ValidationPolicy{}
}

// Check applies the policy to r.
func (p ValidationPolicy) Check(s Schema, r Record) error {
	if p.RequireCanonicalDate {
		if _, err := s.ParseDate(r.Date); err != nil {
			return &FieldError{Field: s.Columns[0], Value: r.Date, Err: ErrInvalidDate}
		}
	}
	if p.RejectNegativeAmounts {
		amt, err := ParseAmount(r.Amount)
		if err != nil {
			return &FieldError{Field: s.Columns[1], Value: r.Amount, Err: err}
		}
		if amt.IsNegative() {
			return &FieldError{Field: s.Columns[1], Value: r.Amount, Err: ErrNegativeAmount}
		}
	}
	if p.RestrictCategories && !Category(r.Category).IsRecognized() {
		return &FieldError{Field: s.Columns[2], Value: r.Category, Err: ErrUnknownCategory}
	}
	return nil
}
