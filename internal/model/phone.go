package model

import "strings"

// NormalizePhone canonicalizes a visitor-supplied phone number for the
// messaging channel. Everything except digits and a leading '+' is
// dropped. A number already carrying '+' is kept verbatim; a bare
// 10-digit number gets countryPrefix (e.g. "+91"); a leading '0' is
// replaced with '+'; anything else gets a bare '+'. Returns "" for
// empty input.
func NormalizePhone(phone, countryPrefix string) string {
	s := strings.TrimSpace(phone)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for i, ch := range s {
		if ch >= '0' && ch <= '9' || ch == '+' && i == 0 {
			b.WriteRune(ch)
		}
	}
	s = b.String()
	if s == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(s, "+"):
		return s
	case len(s) == 10:
		return countryPrefix + s
	case strings.HasPrefix(s, "0"):
		return "+" + strings.TrimLeft(s, "0")
	default:
		return "+" + s
	}
}
