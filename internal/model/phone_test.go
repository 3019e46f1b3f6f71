package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare_ten_digits", "9876543210", "+919876543210"},
		{"leading_zero", "09876543210", "+9876543210"},
		{"already_e164", "+19876543210", "+19876543210"},
		{"with_spaces_and_dashes", "98765-432 10", "+919876543210"},
		{"eleven_digits_no_zero", "19876543210", "+19876543210"},
		{"multiple_leading_zeros", "009876543210", "+9876543210"},
		{"empty", "", ""},
		{"junk_only", "abc-()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in, "+91"))
		})
	}
}

func TestNormalizePhoneCountryPrefix(t *testing.T) {
	assert.Equal(t, "+19876543210", NormalizePhone("9876543210", "+1"))
}
