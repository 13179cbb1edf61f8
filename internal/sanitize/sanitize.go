// Package sanitize cleans free-form configuration text before it is stamped
// into FITS header cards. Header values must be printable ASCII and fit in
// the 80-byte card image, so anything else is stripped or truncated.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxHeaderValueLength is the longest encoded string value fitsio writes on
// a single card. Longer values are split across CONTINUE cards.
const MaxHeaderValueLength = 67

// reRepeatedSpaces matches 2 or more consecutive spaces.
var reRepeatedSpaces = regexp.MustCompile(` {2,}`)

// HeaderValue sanitizes a string header value and returns it encoded for a
// card: fitsio writes string values verbatim, so embedded single quotes come
// back doubled. fitsio's reader turns them into single quotes again.
//
// The sanitization pipeline runs in this order:
//  1. Replace tabs and newlines with spaces
//  2. Strip everything outside printable ASCII (0x20-0x7E)
//  3. Collapse repeated spaces
//  4. Trim leading/trailing whitespace
//  5. Truncate so the encoded value fits in a card
//  6. Double embedded single quotes
func HeaderValue(input string) string {
	if input == "" {
		return ""
	}

	s := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r < 0x20 || r > 0x7E:
			return -1
		}
		return r
	}, input)

	s = reRepeatedSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	s = truncateQuoted(s, MaxHeaderValueLength)
	return strings.ReplaceAll(s, "'", "''")
}

// truncateQuoted cuts s so that its encoded length, counting each single
// quote twice, is at most limit.
func truncateQuoted(s string, limit int) string {
	n := 0
	for i := 0; i < len(s); i++ {
		w := 1
		if s[i] == '\'' {
			w = 2
		}
		if n+w > limit {
			return strings.TrimRight(s[:i], " ")
		}
		n += w
	}
	return s
}
