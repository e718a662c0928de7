package cardgen

import "strings"

// MaxCardNameLength is the imprint width of the card face, in characters.
const MaxCardNameLength = 26

// NormalizeCardName upper-cases the cardholder name, collapses whitespace and
// truncates it to the card face width.
func NormalizeCardName(name string) string {
	up := []rune(strings.ToUpper(strings.Join(strings.Fields(name), " ")))
	if len(up) > MaxCardNameLength {
		up = up[:MaxCardNameLength]
	}
	return strings.TrimSpace(string(up))
}
