package model

import "strings"

// TruncateString cuts s to at most maxLength bytes.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}

// LoginKey is the identity key of an account: logins are case-insensitive.
func LoginKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
