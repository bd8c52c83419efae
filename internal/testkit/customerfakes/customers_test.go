package customerfakes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/umalmyha/customer-records/internal/model"
)

func strPtr(s string) *string {
	return &s
}

func TestPatched(t *testing.T) {
	c := model.Customer{
		ID:        "a0b1d0a4-63a7-4b54-9c2c-7f5f2a1a3e11",
		FirstName: strPtr("A"),
		City:      strPtr("X"),
		Avatar:    strPtr("http://avatars/a.png"),
	}

	patched := Patched(c, model.CustomerPatch{City: model.Some("Y"), Avatar: model.Null()})

	require.Equal(t, "A", *patched.FirstName, "firstname was not in patch")
	require.Equal(t, "Y", *patched.City)
	require.Nil(t, patched.Avatar)
	require.Equal(t, "X", *c.City, "original customer must stay untouched")
}
