// Package format renders amounts and timestamps the way the Indonesian
// UI shows them.  These are display conventions only; wire values stay
// numeric and RFC 3339.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	dayNames   = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	monthNames = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli",
		"Agustus", "September", "Oktober", "November", "Desember"}
)

// jakarta falls back to a fixed UTC+7 zone when tzdata is missing.
var jakarta = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}()

// Rupiah formats d as "Rp 150.000".  Fractions are rounded to whole
// rupiah.
func Rupiah(d decimal.Decimal) string {
	d = d.Round(0)
	neg := d.IsNegative()
	digits := d.Abs().StringFixed(0)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// RupiahInt is Rupiah for integer balances.
func RupiahInt(n int64) string { return Rupiah(decimal.NewFromInt(n)) }

// DateID formats t as "Sabtu, 17 Oktober 2026 14.30" in Jakarta time.
// The zero time renders as "-".
func DateID(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(jakarta)
	return dayNames[t.Weekday()] + ", " + t.Format("2") + " " + monthNames[t.Month()-1] + " " +
		t.Format("2006 15.04")
}
