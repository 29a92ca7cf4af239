package runtime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/tendero/pkg/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Plain decimal: digits with an optional point fraction, or a comma
	// followed by one or two digits (céntimos). "1,500" reads as a thousands
	// separator in Peru, so three digits after a comma are rejected, as are
	// signs, exponents, hex and digit separators.
	amountPattern   = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+|\d*,\d{1,2})$`)
	selectorPattern = regexp.MustCompile(`^\d+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ParseAmount parses a non-negative quantity or price.
// A comma is accepted as the decimal separator for céntimos ("2,5" is 2.5,
// "4,50" is 4.5); "1,500" is rejected rather than read as 1.5.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return 0, domain.ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return 0, domain.ErrInvalidNumber
	}
	return v, nil
}

// ParseSelector parses a 1-based menu choice in [1, n].
func ParseSelector(s string, n int) (int, error) {
	s = strings.TrimSpace(s)
	if !selectorPattern.MatchString(s) {
		return 0, domain.ErrInvalidSelector
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > n {
		return 0, domain.ErrInvalidSelector
	}
	return v, nil
}

// IsAffirmative reports whether the answer is a yes ("sí", "si", "SI", "yes").
func IsAffirmative(s string) bool {
	switch fold(s) {
	case "si", "yes":
		return true
	}
	return false
}

// IsNegative reports whether the answer is a no.
func IsNegative(s string) bool {
	return fold(s) == "no"
}

// IsEmail reports whether s looks like an e-mail address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// fold lowercases s and strips its diacritics.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// isCommand compares free text to a command name, ignoring case, accents and
// repeated blanks.
func isCommand(input string, names ...string) bool {
	got := strings.Join(strings.Fields(fold(input)), " ")
	for _, name := range names {
		if got == name {
			return true
		}
	}
	return false
}
