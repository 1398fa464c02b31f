package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := New("420", 9, "0")

	tests := []struct {
		raw  string
		want string
	}{
		{"+420 123 456 789", "+420123456789"},
		{"+420123456789", "+420123456789"},
		{"420123456789", "+420123456789"},
		{"123 456 789", "+420123456789"},
		{"0123456789", "+420123456789"},
		{"00420 123 456 789", "+420123456789"},
		{"00 44 20 7946 0018", "+442079460018"},
		{"+44 (20) 7946-0018", "+442079460018"},
		{"tel:+420-123-456-789", "+420123456789"},
		{"1+2", "+42012"},
		{"++420123", "+420123"},
		{"", ""},
		{"+", ""},
		{"no digits here", ""},
		{"00", "+42000"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalizeOtherPlans(t *testing.T) {
	us := New("+1", 10, "")
	assert.Equal(t, "1", us.CountryCode)
	assert.Equal(t, "+15550109999", us.Normalize("(555) 010-9999"))
	assert.Equal(t, "+15550109999", us.Normalize("1 555 010 9999"))

	bare := Normalizer{}
	assert.Equal(t, "+123", bare.Normalize("123"))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New("420", 9, "0")
	inputs := []string{"", "+", "0", "00", "000", "+420 123 456 789", "0123456789", "1-800-FLOWERS", "٣٤٥", "+-+1"}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}
