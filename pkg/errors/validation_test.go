package errors

import (
	"math"
	"testing"
)

func TestValidateIndex(t *testing.T) {
	tests := []struct {
		name    string
		i, n    int
		wantErr bool
	}{
		{"first", 0, 3, false},
		{"last", 2, 3, false},
		{"negative", -1, 3, true},
		{"past end", 3, 3, true},
		{"empty", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndex(ErrCodeInvalidGraph, "link 0 source", tt.i, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIndex(%d, %d) error = %v, wantErr %v", tt.i, tt.n, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGraph) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidGraph)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 12.5, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize("width", tt.v)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("x", -3); err != nil {
		t.Errorf("ValidateFinite(-3) = %v", err)
	}
	if err := ValidateFinite("x", math.Inf(-1)); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateFinite(-Inf) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateAxis(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"x", false},
		{"y", false},
		{"", true},
		{"z", true},
		{"X", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateAxis(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAxis(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConstraint) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConstraint)
			}
		})
	}
}
