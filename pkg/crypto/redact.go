// pkg/crypto/redact.go

package crypto

import "strings"

// Redact returns a string of asterisks of the same length as the input.
// Use for masking secrets in logs (not cryptographically secure).
func Redact(s string) string {
	if s == "" {
		return "(empty)"
	}
	return strings.Repeat("*", len([]rune(s)))
}

// MaskKey keeps a recognisable prefix and the last four characters of an API key.
func MaskKey(s string) string {
	r := []rune(s)
	if len(r) <= 12 {
		return Redact(s)
	}
	return string(r[:7]) + strings.Repeat("*", len(r)-11) + string(r[len(r)-4:])
}
