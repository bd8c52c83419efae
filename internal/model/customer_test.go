package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestCustomerPatchUnmarshal(t *testing.T) {
	var p CustomerPatch
	err := json.Unmarshal([]byte(`{"city":"Y","avatar":null}`), &p)
	require.NoError(t, err, "patch payload is valid")

	require.True(t, p.City.Set, "city is present in payload")
	require.Equal(t, "Y", *p.City.Value)
	require.True(t, p.Avatar.Set, "avatar is explicitly null in payload")
	require.Nil(t, p.Avatar.Value)
	require.False(t, p.FirstName.Set, "firstname is absent in payload")

	fields := p.Fields()
	require.Len(t, fields, 2)
	require.Equal(t, "city", fields[0].Name)
	require.Equal(t, "avatar", fields[1].Name)
}

func TestCustomerPatchRejectsNonString(t *testing.T) {
	var p CustomerPatch
	err := json.Unmarshal([]byte(`{"city":42}`), &p)
	require.Error(t, err, "city must be a string")
}

func TestCustomerViewOmitsGender(t *testing.T) {
	c := &Customer{ID: "1", Gender: strPtr(DefaultGender), Email: strPtr("a@mail.com")}

	raw, err := json.Marshal(c.View())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotContains(t, out, "gender")
	require.Len(t, out, 10, "view must expose exactly ten fields")
	require.Equal(t, "a@mail.com", out["email"])
	require.Nil(t, out["city"])
}
