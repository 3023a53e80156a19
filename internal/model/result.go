package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/radstage/internal/common"
)

// Labels is one value from each of the three label domains.
type Labels struct {
	T TCategory
	N NCategory
	M MCategory
}

// Result associates a record with its staging. It is created once after a
// successful completion and never mutated.
type Result struct {
	RecordID string
	Labels
}

// NewResult builds a Result for recordID.
func NewResult(recordID string, labels Labels) Result {
	return Result{RecordID: recordID, Labels: labels}
}

// ParseLabels validates raw codes against their domains.
func ParseLabels(t, n, m string) (Labels, error) {
	tc, err := ParseTCategory(t)
	if err != nil {
		return Labels{}, err
	}
	nc, err := ParseNCategory(n)
	if err != nil {
		return Labels{}, err
	}
	mc, err := ParseMCategory(m)
	if err != nil {
		return Labels{}, err
	}
	return Labels{T: tc, N: nc, M: mc}, nil
}

// labelPayload is the wire shape shared by model responses and few-shot outputs.
type labelPayload struct {
	T *string `json:"t"`
	N *string `json:"n"`
	M *string `json:"m"`
}

// DecodePayload parses a structured model response into Labels.
// A missing field or a value outside its domain yields a *DecodeError.
func DecodePayload(raw string) (Labels, error) {
	var p labelPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Labels{}, fmt.Errorf("%w: invalid JSON payload: %w", common.ErrSchemaDecode, err)
	}

	switch {
	case p.T == nil:
		return Labels{}, &DecodeError{Field: FieldT}
	case p.N == nil:
		return Labels{}, &DecodeError{Field: FieldN}
	case p.M == nil:
		return Labels{}, &DecodeError{Field: FieldM}
	}

	return ParseLabels(*p.T, *p.N, *p.M)
}

// MarshalCompact renders labels as the minified {"t","n","m"} object.
func (l Labels) MarshalCompact() string {
	t, n, m := string(l.T), string(l.N), string(l.M)
	b, _ := json.Marshal(labelPayload{T: &t, N: &n, M: &m})
	return string(b)
}

type resultJSON struct {
	RecordID string `json:"record_id"`
	T        string `json:"t"`
	N        string `json:"n"`
	M        string `json:"m"`
}

// MarshalJSON writes the four-field persisted form.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		RecordID: r.RecordID,
		T:        string(r.T),
		N:        string(r.N),
		M:        string(r.M),
	})
}

// UnmarshalJSON reads the persisted form, validating every label. Fields
// other than the four persisted ones are rejected.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	if raw.RecordID == "" {
		return &DecodeError{Field: "record_id"}
	}

	labels, err := ParseLabels(raw.T, raw.N, raw.M)
	if err != nil {
		return err
	}

	*r = Result{RecordID: raw.RecordID, Labels: labels}
	return nil
}
