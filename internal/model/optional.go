package model

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// OptionalString distinguishes a key missing from JSON payload from a key explicitly set to null
type OptionalString struct {
	Set   bool
	Value *string
}

// Some builds set optional with value
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null builds set optional without value
func Null() OptionalString {
	return OptionalString{Set: true}
}

// UnmarshalJSON is invoked only when key is present in payload
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
