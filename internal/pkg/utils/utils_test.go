package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaymentID(t *testing.T) {
	a := NewPaymentID()
	b := NewPaymentID()

	assert.Len(t, a, 8)
	assert.Len(t, b, 8)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestFormatTON(t *testing.T) {
	cases := []struct {
		nano int64
		want string
	}{
		{2_000_000_000, "2"},
		{3_500_000_000, "3.5"},
		{49_000_000_000, "49"},
		{1, "0.000000001"},
		{0, "0"},
		{-1_500_000_000, "-1.5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTON(tc.nano), "nano=%d", tc.nano)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-12,345", FormatNumber(-12345))
}
