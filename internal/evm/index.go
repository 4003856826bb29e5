// Package evm implements the earned value management engine: the planned
// value baseline, obligation weighting, the performance snapshot and the
// monthly timeline projection. Every function is a pure computation over
// in-memory inputs; storage access happens before these are called.
package evm

import (
	"encoding/json"
	"fmt"
	"math"
)

// Index is a performance ratio such as CPI or SPI. A zero denominator yields
// an undefined index, which serialises as JSON null.
type Index struct {
	value   float64
	defined bool
}

// NewIndex returns a defined index with the given value.
func NewIndex(v float64) Index {
	return Index{value: v, defined: true}
}

// NotApplicable is the undefined index.
var NotApplicable = Index{}

func ratio(num, den float64) Index {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return NotApplicable
	}
	return NewIndex(num / den)
}

// Defined reports whether the index has a value.
func (i Index) Defined() bool { return i.defined }

// Value returns the value and whether it is defined.
func (i Index) Value() (float64, bool) { return i.value, i.defined }

// Float returns the value, or 0 when undefined.
func (i Index) Float() float64 {
	if !i.defined {
		return 0
	}
	return i.value
}

// Or returns the value, or fallback when undefined.
func (i Index) Or(fallback float64) float64 {
	if !i.defined {
		return fallback
	}
	return i.value
}

func (i Index) String() string {
	if !i.defined {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", i.value)
}

// MarshalJSON implements json.Marshaler.
func (i Index) MarshalJSON() ([]byte, error) {
	if !i.defined {
		return []byte("null"), nil
	}
	return json.Marshal(i.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Index) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = NotApplicable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = NewIndex(v)
	return nil
}
