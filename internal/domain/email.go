package domain

import "strings"

// NormalizeEmail lowercases and trims an email address. Every store lookup
// and write goes through this, so "A@Test.com " and "a@test.com" are the
// same identity throughout the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
