// Package phone turns raw phone-number strings into canonical lookup keys.
package phone

import "strings"

// Normalizer canonicalizes phone numbers against a domestic numbering plan.
//
// Keys are either empty or "+" followed by digits, so Normalize is idempotent:
// a key fed back in comes out unchanged.
type Normalizer struct {
	CountryCode    string // default country code without "+", e.g. "420"
	NationalLength int    // significant digits of a domestic number, e.g. 9
	TrunkPrefix    string // domestic trunk prefix dropped before the country code, e.g. "0"
}

// New returns a Normalizer for the given numbering plan.
func New(countryCode string, nationalLength int, trunkPrefix string) Normalizer {
	return Normalizer{
		CountryCode:    strings.TrimPrefix(countryCode, "+"),
		NationalLength: nationalLength,
		TrunkPrefix:    trunkPrefix,
	}
}

// Normalize maps raw to its lookup key. It never fails; input without digits maps to "".
func (n Normalizer) Normalize(raw string) string {
	digits, plus := strip(raw)
	if digits == "" {
		return ""
	}

	switch {
	case plus:
		return "+" + digits
	case strings.HasPrefix(digits, "00") && len(digits) > 2:
		return "+" + digits[2:]
	case n.CountryCode != "" && strings.HasPrefix(digits, n.CountryCode) && len(digits) > n.NationalLength:
		return "+" + digits
	}

	if n.TrunkPrefix != "" && len(digits) > n.NationalLength && strings.HasPrefix(digits, n.TrunkPrefix) {
		digits = digits[len(n.TrunkPrefix):]
	}
	return "+" + n.CountryCode + digits
}

// strip keeps ASCII digits plus a "+" that appears before the first digit.
func strip(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	plus := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '+' && b.Len() == 0:
			plus = true
		}
	}
	return b.String(), plus
}
