package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const nanoPerTON = 1_000_000_000

// NewPaymentID returns a short memo token for payment matching.
// Eight hex characters keep the memo easy to copy by hand while
// staying unique across the pending-payment window.
func NewPaymentID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// FormatTON renders a nano-unit amount as a decimal TON string with
// trailing zeros trimmed ("2", "3.5", "0.000000001").
func FormatTON(nano int64) string {
	neg := nano < 0
	if neg {
		nano = -nano
	}
	whole := nano / nanoPerTON
	frac := nano % nanoPerTON

	s := strconv.FormatInt(whole, 10)
	if frac > 0 {
		f := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
		s += "." + f
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatNumber adds thousands separators for stats output.
func FormatNumber(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		s = "-" + s
	}
	return s
}
