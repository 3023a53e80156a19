// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"

	"github.com/Veraticus/radstage/internal/common"
)

// TCategory is the primary-tumor extent of a TNM staging.
type TCategory string

// Primary tumor (T) codes.
const (
	T0   TCategory = "T0"
	Tis  TCategory = "Tis"
	T1mi TCategory = "T1mi"
	T1a  TCategory = "T1a"
	T1b  TCategory = "T1b"
	T1c  TCategory = "T1c"
	T2a  TCategory = "T2a"
	T2b  TCategory = "T2b"
	T3   TCategory = "T3"
	T4   TCategory = "T4"
)

// NCategory is the regional lymph node involvement of a TNM staging.
type NCategory string

// Regional lymph node (N) codes.
const (
	N0 NCategory = "N0"
	N1 NCategory = "N1"
	N2 NCategory = "N2"
	N3 NCategory = "N3"
)

// MCategory is the distant metastasis extent of a TNM staging.
type MCategory string

// Distant metastasis (M) codes.
const (
	M0  MCategory = "M0"
	M1a MCategory = "M1a"
	M1b MCategory = "M1b"
	M1c MCategory = "M1c"
)

var (
	tValues = []TCategory{T0, Tis, T1mi, T1a, T1b, T1c, T2a, T2b, T3, T4}
	nValues = []NCategory{N0, N1, N2, N3}
	mValues = []MCategory{M0, M1a, M1b, M1c}
)

// Label field names as they appear in payloads and persisted results.
const (
	FieldT = "t"
	FieldN = "n"
	FieldM = "m"
)

// DecodeError reports a label value that is missing or outside its domain.
type DecodeError struct {
	Field string
	Value string
}

func (e *DecodeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("missing value for label %q", e.Field)
	}
	return fmt.Sprintf("value %q is not a valid %q label", e.Value, e.Field)
}

func (e *DecodeError) Unwrap() error {
	return common.ErrSchemaDecode
}

// TValues returns every T code in declaration order.
func TValues() []TCategory {
	return append([]TCategory(nil), tValues...)
}

// NValues returns every N code in declaration order.
func NValues() []NCategory {
	return append([]NCategory(nil), nValues...)
}

// MValues returns every M code in declaration order.
func MValues() []MCategory {
	return append([]MCategory(nil), mValues...)
}

// ParseTCategory returns the T code named s.
func ParseTCategory(s string) (TCategory, error) {
	for _, v := range tValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &DecodeError{Field: FieldT, Value: s}
}

// ParseNCategory returns the N code named s.
func ParseNCategory(s string) (NCategory, error) {
	for _, v := range nValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &DecodeError{Field: FieldN, Value: s}
}

// ParseMCategory returns the M code named s.
func ParseMCategory(s string) (MCategory, error) {
	for _, v := range mValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &DecodeError{Field: FieldM, Value: s}
}

// LabelNames returns the string codes of each domain keyed by field name.
// The order of each slice matches the declaration order of the domain.
func LabelNames() map[string][]string {
	names := map[string][]string{
		FieldT: make([]string, 0, len(tValues)),
		FieldN: make([]string, 0, len(nValues)),
		FieldM: make([]string, 0, len(mValues)),
	}
	for _, v := range tValues {
		names[FieldT] = append(names[FieldT], string(v))
	}
	for _, v := range nValues {
		names[FieldN] = append(names[FieldN], string(v))
	}
	for _, v := range mValues {
		names[FieldM] = append(names[FieldM], string(v))
	}
	return names
}
