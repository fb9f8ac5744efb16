package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const hexDigits = "0123456789abcdefABCDEF"

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"lowercase", "0xabcdef0123456789abcdef0123456789abcdef01", true},
		{"uppercase digits", "0xABCDEF0123456789ABCDEF0123456789ABCDEF01", true},
		{"mixed case", "0xAbCdEf0123456789aBcDeF0123456789ABCDEF01", true},
		{"checksummed", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", true},
		{"empty", "", false},
		{"prefix only", "0x", false},
		{"39 digits", "0x" + strings.Repeat("a", 39), false},
		{"41 digits", "0x" + strings.Repeat("a", 41), false},
		{"no prefix", strings.Repeat("a", 40), false},
		{"no prefix 42 chars", strings.Repeat("a", 42), false},
		{"upper prefix", "0X" + strings.Repeat("a", 40), false},
		{"non hex digit", "0x" + strings.Repeat("a", 39) + "g", false},
		{"leading space", " 0x" + strings.Repeat("a", 40), false},
		{"trailing space", "0x" + strings.Repeat("a", 40) + " ", false},
		{"trailing newline", "0x" + strings.Repeat("a", 40) + "\n", false},
		{"unicode", "0x" + strings.Repeat("a", 38) + "é", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAddress(tt.candidate))
		})
	}
}

func TestIsValidAddress_EveryHexDigitInEveryPosition(t *testing.T) {
	base := []byte("0x" + strings.Repeat("0", 40))
	for pos := 2; pos < len(base); pos++ {
		for _, c := range []byte(hexDigits) {
			candidate := append([]byte(nil), base...)
			candidate[pos] = c
			if !IsValidAddress(string(candidate)) {
				t.Fatalf("expected %q to be valid", candidate)
			}
		}
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t,
		"0xabcdef0123456789abcdef0123456789abcdef01",
		NormalizeAddress("0xAbCdEf0123456789aBcDeF0123456789ABCDEF01"))
	assert.Equal(t, "", NormalizeAddress(""))
	assert.True(t, SameAddress("0xABC", "0xabc"))
	assert.False(t, SameAddress("0xabc", "0xabd"))
}
