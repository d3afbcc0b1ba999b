package text

import "fmt"

// FormatSize renders a byte count for user-facing messages. Exact KiB and MiB
// multiples use the unit; other values under 1 MiB stay in bytes.
//
//	FormatSize(32 << 20) // "32 MiB"
//	FormatSize(1536)     // "1536 bytes"
func FormatSize(n int64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
	)
	switch {
	case n >= mib && n%mib == 0:
		return fmt.Sprintf("%d MiB", n/mib)
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= kib && n%kib == 0:
		return fmt.Sprintf("%d KiB", n/kib)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
