// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

// ctcpDelim is the CTCP quoting byte, \x01, that brackets an embedded
// CTCP request/reply within a PRIVMSG/NOTICE payload.
const ctcpDelim = '\x01'

// stripCTCPAction recognizes the one CTCP form this client renders
// specially: ACTION, as sent by "/me". The full CAP_CTCP surface (VERSION,
// PING, CLIENTINFO, FINGER, SOURCE, etc.) that the teacher library
// answers automatically is out of scope here — this is a terminal client
// with a human driving it, not a bot, so those replies belong to the UI
// layer (or nowhere) rather than being auto-answered by the engine.
func stripCTCPAction(text string) (body string, ok bool) {
	const prefix = "ACTION "

	if len(text) < 2 || text[0] != ctcpDelim || text[len(text)-1] != ctcpDelim {
		return "", false
	}

	inner := text[1 : len(text)-1]
	if len(inner) < len(prefix) || inner[:len(prefix)] != prefix {
		return "", false
	}

	return inner[len(prefix):], true
}

// formatCTCPAction wraps text as a CTCP ACTION payload, suitable for use
// as a PRIVMSG trailing parameter.
func formatCTCPAction(text string) string {
	return string(ctcpDelim) + "ACTION " + text + string(ctcpDelim)
}
