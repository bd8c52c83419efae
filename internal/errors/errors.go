package errors

import (
	"encoding/json"
	"fmt"
)

// EntryNotFoundErr is raised when requested entry is missing in data source
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

// MarshalJSON renders error the same way echo renders its own errors
func (e *EntryNotFoundErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Message string `json:"message"`
	}{Message: e.message})
}

// NewEntryNotFoundErr builds EntryNotFoundErr
func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// NewCustomerNotFoundErr builds EntryNotFoundErr for customer with provided id
func NewCustomerNotFoundErr(id string) *EntryNotFoundErr {
	return NewEntryNotFoundErr(fmt.Sprintf("No data found for the input id %s", id))
}
