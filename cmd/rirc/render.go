// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	rirc "github.com/lessandro/rirc"
)

// renderer is a minimal, non-interactive dump of engine activity: every
// new scrollback line gets one printed row. It exists to exercise the
// engine end to end from the command line; a real terminal UI (buffer
// switching, input editing, nick-column alignment) is out of scope here.
type renderer struct {
	w io.Writer

	system  *color.Color
	joinMsg *color.Color
	partMsg *color.Color
	pinged  *color.Color

	seen map[*rirc.Channel]int
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{
		w:       w,
		system:  color.New(color.FgBlack, color.Bold),
		joinMsg: color.New(color.FgGreen),
		partMsg: color.New(color.FgRed),
		pinged:  color.New(color.FgYellow, color.Bold),
		seen:    map[*rirc.Channel]int{},
	}
}

// Draw prints any scrollback lines appended since the last Draw, across
// every server and channel, in registration order.
func (r *renderer) Draw(eng *rirc.Engine) {
	for _, srv := range eng.Servers {
		for _, ch := range srv.Channels {
			lines := ch.Scrollback.Lines()
			start := r.seen[ch]
			if start > len(lines) {
				start = 0 // scrollback wrapped/reset (e.g. /clear)
			}

			for _, line := range lines[start:] {
				r.printLine(srv, ch, line)
			}
			r.seen[ch] = len(lines)
		}
	}
}

func (r *renderer) printLine(srv *rirc.Server, ch *rirc.Channel, line rirc.BufferLine) {
	prefix := fmt.Sprintf("[%s/%s]", srv.Config.Host, ch.Name)

	switch line.Type {
	case rirc.LinePinged:
		_, _ = r.pinged.Fprintf(r.w, "%s <%s> %s\n", prefix, line.Sender, line.Text)
	default:
		switch line.Sender {
		case ">>":
			_, _ = r.joinMsg.Fprintf(r.w, "%s %s\n", prefix, line.Text)
		case "<<":
			_, _ = r.partMsg.Fprintf(r.w, "%s %s\n", prefix, line.Text)
		case "--", "-!!-":
			_, _ = r.system.Fprintf(r.w, "%s %s\n", prefix, line.Text)
		default:
			fmt.Fprintf(r.w, "%s <%s> %s\n", prefix, line.Sender, line.Text)
		}
	}
}
