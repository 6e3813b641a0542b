package errors

import "math"

// ValidateIndex checks that i addresses one of n items. what names the
// reference in the message, e.g. "link 3 source".
func ValidateIndex(code Code, what string, i, n int) error {
	if i < 0 || i >= n {
		return New(code, "%s: index %d out of range [0, %d)", what, i, n)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", what, v)
	}
	return nil
}

// ValidateSize rejects negative or non-finite sizes. Zero is allowed.
func ValidateSize(what string, v float64) error {
	if err := ValidateFinite(what, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative, got %v", what, v)
	}
	return nil
}

// ValidateAxis accepts "x" and "y".
func ValidateAxis(axis string) error {
	switch axis {
	case "x", "y":
		return nil
	case "":
		return New(ErrCodeInvalidConstraint, "axis cannot be empty")
	default:
		return New(ErrCodeInvalidConstraint, "unknown axis %q (want x or y)", axis)
	}
}
