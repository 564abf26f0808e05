package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBalanceAcceptsBigDecimal(t *testing.T) {
	cases := map[string]Rupiah{
		`150000`:      150000,
		`150000.00`:   150000,
		`"150000.00"`: 150000,
		`99999.99`:    99999,
		`null`:        0,
	}
	for raw, want := range cases {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"balance":`+raw+`}`), &u), raw)
		assert.Equal(t, want, u.Balance, raw)
	}

	var u User
	assert.Error(t, json.Unmarshal([]byte(`{"balance":"lots"}`), &u))
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"f3c1"}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, ID("f3c1"), v.B)
}
