package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	cases := map[string]string{
		"0":          "Rp 0",
		"500":        "Rp 500",
		"1000":       "Rp 1.000",
		"150000":     "Rp 150.000",
		"1234567.6":  "Rp 1.234.568",
		"-25000":     "-Rp 25.000",
		"1000000000": "Rp 1.000.000.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, Rupiah(decimal.RequireFromString(in)), in)
	}
	assert.Equal(t, "Rp 10.000", RupiahInt(10000))
}

func TestDateID(t *testing.T) {
	ts := time.Date(2026, 10, 17, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, "Sabtu, 17 Oktober 2026 14.30", DateID(ts))
	assert.Equal(t, "-", DateID(time.Time{}))
}
