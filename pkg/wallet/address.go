package wallet

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressPrefix is the literal prefix every account address must carry.
const AddressPrefix = "0x"

// IsValidAddress reports whether candidate is "0x" followed by exactly 40 hex digits.
// Either case is accepted for the digits; the prefix must be lowercase and there is no
// whitespace tolerance.
func IsValidAddress(candidate string) bool {
	if len(candidate) != len(AddressPrefix)+2*common.AddressLength {
		return false
	}
	if !strings.HasPrefix(candidate, AddressPrefix) {
		return false
	}
	return common.IsHexAddress(candidate)
}

// NormalizeAddress returns the canonical (lowercase) form used for storage and comparison.
// It does not validate the input.
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}
