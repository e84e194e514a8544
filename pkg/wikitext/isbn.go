package wikitext

import (
	"regexp"
	"strings"
)

// isbnPrefixRe locates "ISBN" markers; the number itself is scanned
// manually because the terminator rules need lookahead.
var isbnPrefixRe = regexp.MustCompile(`(?i)isbn\s*[=:]?\s*`)

// yearAheadRe matches a trailing year such as " 2004", which ends the
// ISBN candidate ("isbn 0306406152 2004" must not swallow the year).
var yearAheadRe = regexp.MustCompile(`^\s+[0-9]{4}([^0-9]|$)`)

// ValidateISBN10 reports whether isbn is a ten character string with a
// valid ISBN-10 checksum. The final character may be X.
func ValidateISBN10(isbn string) bool {
	if len(isbn) != 10 {
		return false
	}

	total := 0
	for i := 0; i < 9; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}
		total += int(c-'0') * (10 - i)
	}

	var check int
	switch last := isbn[9]; {
	case last == 'X' || last == 'x':
		check = 10
	case last >= '0' && last <= '9':
		check = int(last - '0')
	default:
		return false
	}

	return total%11 == (11-check)%11
}

// ValidateISBN13 reports whether isbn is a thirteen digit string with a
// 978/979 prefix and a valid ISBN-13 checksum.
func ValidateISBN13(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}
	if !strings.HasPrefix(isbn, "978") && !strings.HasPrefix(isbn, "979") {
		return false
	}

	total := 0
	for i := 0; i < 12; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if i%2 == 1 {
			digit *= 3
		}
		total += digit
	}
	if isbn[12] < '0' || isbn[12] > '9' {
		return false
	}

	return int(isbn[12]-'0') == (10-total%10)%10
}

// FindInvalidISBNs scans text for ISBN markers and returns the raw
// candidates whose checksum does not validate as ISBN-10 or ISBN-13.
func FindInvalidISBNs(text string) []string {
	var invalid []string
	for _, loc := range isbnPrefixRe.FindAllStringIndex(text, -1) {
		raw := captureISBNCandidate(text[loc[1]:])
		clean := strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\n', '\r', '\f', '\v', '-':
				return -1
			}
			return r
		}, raw)
		if clean == "" {
			continue
		}

		valid := (len(clean) == 10 && ValidateISBN10(clean)) ||
			(len(clean) == 13 && ValidateISBN13(clean))
		if !valid {
			invalid = append(invalid, strings.TrimSpace(raw))
		}
	}
	return invalid
}

func isISBNChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == 'X' || c == 'x' || c == '-':
		return true
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
		return true
	}
	return false
}

// captureISBNCandidate takes the shortest non-empty run of ISBN characters
// that ends at a non-ISBN character, at a trailing year, or at end of
// input, capped at 30 characters.
func captureISBNCandidate(s string) string {
	limit := 30
	if len(s) < limit {
		limit = len(s)
	}
	for end := 1; end <= limit; end++ {
		if !isISBNChar(s[end-1]) {
			return ""
		}
		if end == len(s) || !isISBNChar(s[end]) || yearAheadRe.MatchString(s[end:]) {
			return s[:end]
		}
	}
	return ""
}
