// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "github.com/lessandro/rirc/internal/avl"

// BufferType classifies a Channel's role.
type BufferType int

const (
	// BufferServer is the one mandatory per-server status buffer.
	BufferServer BufferType = iota
	// BufferChannel is a joined (or parted-but-retained) IRC channel.
	BufferChannel
	// BufferPrivate is a one-on-one query with another nick.
	BufferPrivate
	// BufferOther is any other kind of buffer (e.g. a future DCC/notice tab).
	BufferOther
)

// Activity is the attention state of a Channel, used to drive UI
// highlighting.
type Activity int

const (
	// ActivityDefault means nothing of note has happened since last viewed.
	ActivityDefault Activity = iota
	// ActivityActive means new lines have arrived since last viewed.
	ActivityActive
	// ActivityPinged means a line mentioned the local nick.
	ActivityPinged
)

// Channel is a single buffer: the server-status buffer, a joined
// channel, or a private query. Every Server owns a ring of at least one
// Channel (its status buffer); a Channel exclusively owns its
// scrollback, input history, and nick set, and holds a non-owning
// back-reference to its Server.
type Channel struct {
	// Name includes the type-prefix character for channels (e.g. "#go").
	Name string
	Type BufferType

	Modes ModeSet

	Parted   bool
	Activity Activity

	Scrollback *Scrollback
	Input      *InputHistory

	// Nicks is empty and ignored for BufferServer buffers.
	Nicks avl.Tree

	Server *Server
}

// NewChannel constructs a Channel of the given name/type, owned by srv.
func NewChannel(name string, kind BufferType, srv *Server) *Channel {
	return &Channel{
		Name:       name,
		Type:       kind,
		Scrollback: NewScrollback(),
		Input:      NewInputHistory(),
		Server:     srv,
	}
}

// NickCount returns the number of nicks currently tracked. Always 0 for
// a BufferServer buffer.
func (c *Channel) NickCount() int {
	if c.Type == BufferServer {
		return 0
	}
	return c.Nicks.Len()
}

// UserIn reports whether nick is currently tracked in this channel.
func (c *Channel) UserIn(nick string) bool {
	return c.Nicks.Contains(ToRFC1459(nick))
}

// AddNick inserts nick into the channel's ordered nick set.
func (c *Channel) AddNick(nick string) avl.InsertResult {
	return c.Nicks.Insert(ToRFC1459(nick))
}

// RemoveNick removes nick from the channel's ordered nick set.
func (c *Channel) RemoveNick(nick string) avl.RemoveResult {
	return c.Nicks.Remove(ToRFC1459(nick))
}

// RenameNick moves a tracked nick to a new name, preserving its presence
// in the set (used on incoming NICK changes).
func (c *Channel) RenameNick(old, new string) {
	if c.Nicks.Remove(ToRFC1459(old)) == avl.Removed {
		c.Nicks.Insert(ToRFC1459(new))
	}
}

// AppendLine appends a rendered line to the scrollback and updates
// activity to at least ActivityActive (never downgrading an existing
// ActivityPinged).
func (c *Channel) AppendLine(line BufferLine) {
	c.Scrollback.Append(line)
	if c.Activity == ActivityDefault {
		c.Activity = ActivityActive
	}
}

// AppendPinged appends a line that mentioned the local nick: marks it
// LinePinged and escalates activity to ActivityPinged. It does not emit
// a terminal bell and does not report to the caller that one is due.
func (c *Channel) AppendPinged(line BufferLine) {
	line.Type = LinePinged
	c.Scrollback.Append(line)
	c.Activity = ActivityPinged
}

// MarkRead resets activity back to default, e.g. when the UI focuses
// this buffer.
func (c *Channel) MarkRead() {
	c.Activity = ActivityDefault
}
