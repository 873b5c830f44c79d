// Package nepali holds text helpers for Nepali-language registry data.
package nepali

import (
	"regexp"
	"strings"
)

var (
	// Keeps word characters, whitespace, and the Devanagari block.
	searchStripRe = regexp.MustCompile(`[^\w\s\x{0900}-\x{097F}]`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)

	mobileRe   = regexp.MustCompile(`^(98|97)\d{8}$`)
	landlineRe = regexp.MustCompile(`^0[1-9]\d{6,7}$`)
	phoneSepRe = regexp.MustCompile(`[\s\-()]`)
)

var digitPairs = [10][2]rune{
	{'०', '0'}, {'१', '1'}, {'२', '2'}, {'३', '3'}, {'४', '4'},
	{'५', '5'}, {'६', '6'}, {'७', '7'}, {'८', '8'}, {'९', '9'},
}

// SanitizeSearchTerm trims, lowercases, and strips characters that are
// neither alphanumeric nor Devanagari, collapsing runs of whitespace.
func SanitizeSearchTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = searchStripRe.ReplaceAllString(term, "")
	return multiSpaceRe.ReplaceAllString(term, " ")
}

// ToEnglishDigits converts Devanagari numerals to ASCII digits, leaving
// everything else untouched.
func ToEnglishDigits(s string) string {
	return strings.Map(func(r rune) rune {
		for _, pair := range digitPairs {
			if r == pair[0] {
				return pair[1]
			}
		}
		return r
	}, s)
}

// IsValidPhoneNumber reports whether the string is a Nepali mobile number
// (10 digits starting 98/97) or a landline number with area code.
func IsValidPhoneNumber(phone string) bool {
	clean := phoneSepRe.ReplaceAllString(ToEnglishDigits(phone), "")
	return mobileRe.MatchString(clean) || landlineRe.MatchString(clean)
}
