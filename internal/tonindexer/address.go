package tonindexer

import (
	"github.com/tonkeeper/tongo/ton"
)

// NormalizeAddress converts any TON address format to raw (0:...).
// Unparseable input is returned unchanged.
func NormalizeAddress(addr string) string {
	if addr == "" {
		return ""
	}
	acc, err := ton.ParseAccountID(addr)
	if err != nil {
		return addr
	}
	return acc.String()
}

// FriendlyAddress converts a raw address to the bounceable URL-safe
// form users see in their wallet apps.
func FriendlyAddress(raw string) string {
	if raw == "" {
		return ""
	}
	acc, err := ton.ParseAccountID(raw)
	if err != nil {
		return raw
	}
	return acc.ToHuman(true, false)
}

// ValidAddress reports whether the string parses as a TON address.
func ValidAddress(addr string) bool {
	_, err := ton.ParseAccountID(addr)
	return err == nil
}

// NanoToTON converts nano-units to whole TON for display.
func NanoToTON(nano int64) float64 {
	return float64(nano) / 1e9
}
