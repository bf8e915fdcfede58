// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "strings"

// maxParams is the number of middle (non-trailing) parameters the parser
// will collect before treating the remainder of the line as trailing text,
// per RFC 2812 §2.3.1.
const maxParams = 14

// Message is a parsed view of a single incoming or outgoing IRC line. All
// string fields are plain Go strings (never mutated copies sharing a
// single backing buffer), which keeps the parser non-destructive: unlike
// the original C parser this client is modeled on, nothing here writes
// NULs into the source line.
type Message struct {
	// From is the nick or server portion of the message prefix, if any.
	From string
	// HostInfo is whatever followed the first "!" or "@" in the prefix.
	HostInfo string
	// Command is the verb: either an alphabetic command like "PRIVMSG" or
	// a 3-digit numeric reply.
	Command string
	// Params holds up to maxParams middle parameters.
	Params []string
	// Trailing is the final, possibly space-containing parameter.
	Trailing string
	// HasTrailing reports whether Trailing was present at all, to
	// distinguish an explicit empty trailing ("PRIVMSG #x :") from none.
	HasTrailing bool
}

// ParseMessage parses one line (CR/LF already stripped). It returns a
// *ProtocolError if the line has no command token.
func ParseMessage(line string) (*Message, error) {
	m := &Message{}

	if len(line) == 0 {
		return nil, &ProtocolError{Line: line}
	}

	rest := line

	if rest[0] == ':' {
		var prefix string
		if idx := strings.IndexByte(rest, ' '); idx >= 0 {
			prefix = rest[1:idx]
			rest = rest[idx+1:]
		} else {
			prefix = rest[1:]
			rest = ""
		}

		if bang := strings.IndexByte(prefix, '!'); bang >= 0 {
			m.From = prefix[:bang]
			m.HostInfo = prefix[bang+1:]
		} else if at := strings.IndexByte(prefix, '@'); at >= 0 {
			m.From = prefix[:at]
			m.HostInfo = prefix[at+1:]
		} else {
			m.From = prefix
		}
	}

	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		return nil, &ProtocolError{Line: line}
	}

	for len(m.Params) < maxParams {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}

		if rest[0] == ':' {
			m.Trailing = rest[1:]
			m.HasTrailing = true
			rest = ""
			break
		}

		idx := strings.IndexByte(rest, ' ')
		var tok string
		if idx < 0 {
			tok = rest
			rest = ""
		} else {
			tok = rest[:idx]
			rest = rest[idx+1:]
		}

		if m.Command == "" {
			m.Command = tok
			continue
		}

		m.Params = append(m.Params, tok)
	}

	// Anything still left over (we hit the 14-param cap) becomes trailing,
	// with or without a leading ":".
	rest = strings.TrimLeft(rest, " ")
	if rest != "" {
		if rest[0] == ':' {
			rest = rest[1:]
		}
		m.Trailing = rest
		m.HasTrailing = true
	}

	if m.Command == "" {
		return nil, &ProtocolError{Line: line}
	}

	m.Command = strings.ToUpper(m.Command)

	return m, nil
}

// Last returns the trailing parameter if present, otherwise the final
// middle parameter, otherwise the empty string. It's a convenience used
// by handlers that don't care which form the server chose to use.
func (m *Message) Last() string {
	if m.HasTrailing {
		return m.Trailing
	}
	if len(m.Params) > 0 {
		return m.Params[len(m.Params)-1]
	}
	return ""
}

// Arg returns the i'th middle parameter, or "" if out of range.
func (m *Message) Arg(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// String renders the message back into wire form, without a trailing
// CR LF.
func (m *Message) String() string {
	var b strings.Builder

	if m.From != "" {
		b.WriteByte(':')
		b.WriteString(m.From)
		if m.HostInfo != "" {
			b.WriteByte('!')
			b.WriteString(m.HostInfo)
		}
		b.WriteByte(' ')
	}

	b.WriteString(m.Command)

	for _, p := range m.Params {
		b.WriteByte(' ')
		b.WriteString(p)
	}

	if m.HasTrailing {
		b.WriteString(" :")
		b.WriteString(m.Trailing)
	}

	return b.String()
}
