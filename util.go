// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "strings"

// channelPrefixes lists the characters RFC 2812 permits as the leading
// type character of a channel name.
const channelPrefixes = "#&+!"

// IsValidChannel reports whether name looks like a syntactically valid
// channel name: a recognized prefix character followed by at least one
// more byte, with no spaces, commas, BEL, CR, or LF.
func IsValidChannel(name string) bool {
	if len(name) < 2 || len(name) > 200 {
		return false
	}
	if strings.IndexByte(channelPrefixes, name[0]) < 0 {
		return false
	}
	return !strings.ContainsAny(name[1:], " ,\x07\r\n")
}

// IsValidNick reports whether nick is a syntactically valid RFC 2812
// nickname: letter/special first character, then letters, digits,
// specials, or hyphens, bounded to 256 bytes (NICKSIZE in the original
// implementation).
func IsValidNick(nick string) bool {
	if nick == "" || len(nick) > 256 {
		return false
	}

	if !isLetter(nick[0]) && !isSpecial(nick[0]) {
		return false
	}

	for i := 1; i < len(nick); i++ {
		c := nick[i]
		if !isLetter(c) && !isDigit(c) && !isSpecial(c) && c != '-' {
			return false
		}
	}

	return true
}

// IsValidUser reports whether user is a syntactically valid ident/username:
// no spaces, no NUL, no CR/LF, non-empty, bounded to 256 bytes.
func IsValidUser(user string) bool {
	if user == "" || len(user) > 256 {
		return false
	}
	return !strings.ContainsAny(user, " \x00\r\n")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isSpecial matches RFC 2812's `special` production: []\`_^{|}
func isSpecial(c byte) bool {
	switch c {
	case '[', ']', '\\', '`', '_', '^', '{', '|', '}':
		return true
	}
	return false
}

// ToRFC1459 casefolds a nick/channel name per RFC 1459 §2.2, where
// {}|^ are the lowercase equivalents of []\~.
func ToRFC1459(input string) string {
	b := []byte(strings.ToLower(input))
	for i, c := range b {
		switch c {
		case '[':
			b[i] = '{'
		case ']':
			b[i] = '}'
		case '\\':
			b[i] = '|'
		case '~':
			b[i] = '^'
		}
	}
	return string(b)
}

func isWordByte(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// checkPinged reports whether text contains nick as a whole "word" — its
// boundaries (if any) must be non-alphanumeric — mirroring the original
// C client's check_pinged(), which triggers the PINGED activity state and
// a single terminal bell.
func checkPinged(text, nick string) bool {
	if nick == "" {
		return false
	}

	lowerText := strings.ToLower(text)
	lowerNick := strings.ToLower(nick)

	start := 0
	for {
		idx := strings.Index(lowerText[start:], lowerNick)
		if idx < 0 {
			return false
		}
		pos := start + idx

		beforeOK := pos == 0 || !isWordByte(lowerText[pos-1])
		afterPos := pos + len(lowerNick)
		afterOK := afterPos >= len(lowerText) || !isWordByte(lowerText[afterPos])

		if beforeOK && afterOK {
			return true
		}

		start = pos + 1
		if start >= len(lowerText) {
			return false
		}
	}
}

// StripRaw strips CR and LF from a rendered line, useful before writing
// it to a debug log where embedded newlines would be confusing.
func StripRaw(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

const bel = "\x07"
