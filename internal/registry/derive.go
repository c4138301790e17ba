package registry

import (
	"regexp"
	"strings"

	"lucy-college/internal/apperr"
)

const (
	wordsForAcronym = 4
	prefixLength    = 4
	maxCodeLength   = 16
)

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// DeriveCode builds a code from an entity name.
//
// The name is split on whitespace and every word is reduced to its ASCII
// letters and digits; words left empty are dropped. With four or more words
// the code is the first letter of each of the first four; otherwise it is the
// first four characters of the first word. The result is upper-cased and never
// padded, so "Technology" gives "TECH" and "Law" gives "LAW".
func DeriveCode(name string) (string, error) {
	var words []string
	for _, field := range strings.Fields(name) {
		if w := asciiAlnum(field); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return "", apperr.New(apperr.KindInvalid, "cannot derive a code from an empty name")
	}

	var code string
	if len(words) >= wordsForAcronym {
		var b strings.Builder
		for _, w := range words[:wordsForAcronym] {
			b.WriteByte(w[0])
		}
		code = b.String()
	} else {
		code = words[0]
		if len(code) > prefixLength {
			code = code[:prefixLength]
		}
	}
	return strings.ToUpper(code), nil
}

func asciiAlnum(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NormalizeCode trims and upper-cases a caller-supplied code or path segment.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCode checks a normalized code is a short uppercase ASCII identifier.
func ValidateCode(code string) error {
	if code == "" {
		return apperr.New(apperr.KindInvalid, "code must not be empty")
	}
	if len(code) > maxCodeLength {
		return apperr.New(apperr.KindInvalid, "code must be at most 16 characters")
	}
	if !codePattern.MatchString(code) {
		return apperr.New(apperr.KindInvalid, "code may contain only A-Z, 0-9, '-' and '_'")
	}
	return nil
}

// CodeFor returns the normalized candidate, or a code derived from name when
// no candidate is supplied.
func CodeFor(candidate, name string) (string, error) {
	if code := NormalizeCode(candidate); code != "" {
		return code, ValidateCode(code)
	}
	return DeriveCode(name)
}
