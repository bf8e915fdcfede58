// Copyright 2016 Liam Stanley <me@liamstanley.io>. All rights reserved.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package rirc

import (
	"fmt"
	"strings"
)

// maxPayloadLen is the payload length, in bytes and not counting the
// trailing CR LF, at which formatLine rejects a line as too long; the
// longest accepted payload is one byte shorter. RFC 2812 bounds a whole
// line (including CR LF) to 512 bytes.
const maxPayloadLen = 512 - len("\r\n")

// formatLine renders fmt/args into an IRC wire line with a trailing
// CR LF appended. It returns SendInvalidFormat if the format directives
// don't match args, and SendTooLong if the rendered payload (excluding
// CR LF) is at or above maxPayloadLen. A zero-length payload renders as
// an empty string with no error, which callers should treat as a no-op.
func formatLine(format string, args ...interface{}) (string, error) {
	if format == "" && len(args) == 0 {
		return "", nil
	}

	payload := fmt.Sprintf(format, args...)
	if payload == "" {
		return "", nil
	}

	// fmt embeds "%!verb(...)" markers in its output rather than
	// returning an error; surface those as a formatter failure instead
	// of silently transmitting them.
	if strings.Contains(payload, "%!") {
		return "", &SendError{Kind: SendInvalidFormat}
	}

	if len(payload) >= maxPayloadLen {
		return "", &SendError{Kind: SendTooLong}
	}

	return payload + "\r\n", nil
}
