//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCondominiumID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParseCondominiumID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCondominiumID(input)
		if err == nil {
			roundTrip, err2 := ParseCondominiumID(id.String())
			if err2 != nil {
				t.Errorf("Valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("Round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("Non-UTF8 input was accepted")
		}
	})
}

// FuzzParseTaxCode checks accepted tax codes are stable under re-parsing.
func FuzzParseTaxCode(f *testing.F) {
	f.Add("ADM01")
	f.Add(" rssmra80a01h501u ")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		code, err := ParseTaxCode(input)
		if err != nil {
			return
		}
		again, err := ParseTaxCode(code.String())
		if err != nil || again != code {
			t.Errorf("tax code %q not stable under re-parse", code)
		}
	})
}
