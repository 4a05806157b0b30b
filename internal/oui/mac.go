package oui

import "strings"

// KeyLength is the number of hexadecimal characters in an OUI key.
const KeyLength = 6

// keyReplacer strips the delimiters accepted in MAC and OUI notation.
var keyReplacer = strings.NewReplacer(":", "", "-", "", ".", "")

// NormalizeKey converts a MAC address or OUI string to a registry key:
// delimiters removed, first six characters, upper-cased.
//
// Inputs shorter than six characters after stripping are returned
// upper-cased as-is; they will simply never match a key.
//
//	NormalizeKey("d8:ec:5e:00:11:22") // "D8EC5E"
//	NormalizeKey("00-00-00")          // "000000"
func NormalizeKey(mac string) string {
	s := keyReplacer.Replace(strings.TrimSpace(mac))
	if len(s) > KeyLength {
		s = s[:KeyLength]
	}
	return strings.ToUpper(s)
}

// IsKey reports whether s is a well-formed registry key: exactly six
// upper-case hexadecimal characters.
func IsKey(s string) bool {
	if len(s) != KeyLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// AssignmentKey converts an Assignment column value to a registry key:
// delimiters removed and upper-cased. Unlike NormalizeKey it does not
// truncate, so a malformed assignment cannot alias a real OUI.
func AssignmentKey(assignment string) string {
	return strings.ToUpper(keyReplacer.Replace(strings.TrimSpace(assignment)))
}
