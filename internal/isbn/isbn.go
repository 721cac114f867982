// Package isbn validates ISBN-10 and ISBN-13 identifiers.
//
// Every function is total over its input: malformed strings, wrong lengths
// and checksum mismatches all yield false, never an error or a panic.
package isbn

import "strings"

// Normalize strips every character that is not a decimal digit or the letter
// X (either case). Order and case of the remaining characters are preserved.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isDigit(c) || c == 'X' || c == 'x' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValid10 reports whether s normalizes to a well-formed ISBN-10 with a
// correct mod-11 check character.
func IsValid10(s string) bool {
	n := Normalize(s)
	if len(n) != 10 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		if !isDigit(n[i]) {
			return false
		}
		sum += (10 - i) * int(n[i]-'0')
	}

	switch last := n[9]; {
	case last == 'X' || last == 'x':
		sum += 10
	case isDigit(last):
		sum += int(last - '0')
	default:
		return false
	}
	return sum%11 == 0
}

// IsValid13 reports whether s normalizes to thirteen digits with a correct
// mod-10 check digit. X is never accepted.
func IsValid13(s string) bool {
	n := Normalize(s)
	if len(n) != 13 {
		return false
	}

	sum := 0
	for i := 0; i < 13; i++ {
		if !isDigit(n[i]) {
			return false
		}
		d := int(n[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

// IsValid reports whether s is either a valid ISBN-10 or a valid ISBN-13.
func IsValid(s string) bool {
	n := Normalize(s)
	return IsValid10(n) || IsValid13(n)
}

// ToISBN13 returns the canonical 13-digit form of a valid identifier.
// ISBN-10 input is converted under the 978 prefix.
func ToISBN13(s string) (string, bool) {
	n := Normalize(s)
	if IsValid13(n) {
		return n, true
	}
	if !IsValid10(n) {
		return "", false
	}

	body := "978" + n[:9]
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return body + string(rune('0'+check)), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
