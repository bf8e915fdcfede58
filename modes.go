// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "sort"

// ModeSet is a deduplicated, case-preserving set of single-letter mode
// flags, used for both per-channel channel-modes and per-server
// user-modes. Unlike girc's CModes (which models the full ISUPPORT
// CHANMODES=A,B,C,D argument taxonomy), this tracks only which letters
// are currently set — the argument-bearing modes (channel bans, etc.)
// are out of scope for this client, matching the original C
// implementation's flat MODE_SIZE letter bitset.
type ModeSet struct {
	set map[byte]bool
}

// Has reports whether letter is currently set.
func (m *ModeSet) Has(letter byte) bool {
	if m.set == nil {
		return false
	}
	return m.set[letter]
}

// String renders the set as a sorted "+abc" string, or "" if empty.
func (m *ModeSet) String() string {
	if len(m.set) == 0 {
		return ""
	}

	letters := make([]byte, 0, len(m.set))
	for l := range m.set {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	out := make([]byte, 1+len(letters))
	out[0] = '+'
	copy(out[1:], letters)
	return string(out)
}

// Apply parses a MODE flags string such as "+nt-l" and applies the
// resulting add/remove run to the set. Unknown letters are accepted
// verbatim, case-preserving, and deduplicated — this client does not
// validate against a server-advertised CHANMODES list.
func (m *ModeSet) Apply(flags string) {
	if m.set == nil {
		m.set = make(map[byte]bool)
	}

	add := true
	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case '+':
			add = true
		case '-':
			add = false
		default:
			if add {
				m.set[flags[i]] = true
			} else {
				delete(m.set, flags[i])
			}
		}
	}
}

// userPrefixes lists the nick-list prefix characters NAMES/353 may use
// to mark a user's channel status, in descending rank order.
const userPrefixes = "~&@%+"

// stripNickPrefix removes a single leading status-prefix character (as
// used in RPL_NAMREPLY, 353) from nick, returning the bare nick and the
// prefix character removed (0 if none).
func stripNickPrefix(nick string) (bare string, prefix byte) {
	if len(nick) == 0 {
		return nick, 0
	}
	for i := 0; i < len(userPrefixes); i++ {
		if nick[0] == userPrefixes[i] {
			return nick[1:], nick[0]
		}
	}
	return nick, 0
}
