// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "time"

// scrollbackCap is the fixed capacity of a channel's scrollback ring.
const scrollbackCap = 200

// LineType classifies a BufferLine for rendering purposes.
type LineType int

const (
	// LineDefault is an ordinary system/status line.
	LineDefault LineType = iota
	// LinePinged marks a PRIVMSG that mentioned the local nick.
	LinePinged
	// LineChat marks an ordinary chat message (PRIVMSG/NOTICE/ACTION).
	LineChat
)

// BufferLine is a single rendered line of scrollback.
type BufferLine struct {
	Time time.Time
	// Sender is the nick-sized origin of the line; may be a pseudo-sender
	// like "--", ">>", "-!!-", or "ERROR" for system/status lines.
	Sender string
	Text   string
	Type   LineType
	// rows is the precomputed rendered-row count of Text: Append computes
	// it at defaultTermWidth, and MarkResized recomputes it eagerly for a
	// given width.
	rows int
}

// Scrollback is a fixed-capacity FIFO ring buffer of BufferLine, backed
// by a slice (not an intrusive linked list, matching the non-destructive
// style this package uses throughout). Appending past capacity evicts the
// oldest entry.
type Scrollback struct {
	lines []BufferLine
	start int // index of oldest entry within lines
	count int

	// nickPad is the maximum sender-column width observed across the
	// lines currently retained; used to align the chat column.
	nickPad int
}

// NewScrollback returns an empty scrollback ring at the standard 200
// entry capacity.
func NewScrollback() *Scrollback {
	return &Scrollback{lines: make([]BufferLine, scrollbackCap)}
}

// Len returns the number of lines currently retained.
func (s *Scrollback) Len() int { return s.count }

// Append adds a line to the ring, evicting the oldest line if full, and
// updates the nick-pad width.
func (s *Scrollback) Append(line BufferLine) {
	line.rows = renderedRows(line.Text, defaultTermWidth)

	if s.count < scrollbackCap {
		idx := (s.start + s.count) % scrollbackCap
		s.lines[idx] = line
		s.count++
	} else {
		// Full: overwrite the oldest slot and advance start.
		s.lines[s.start] = line
		s.start = (s.start + 1) % scrollbackCap
		s.recomputeNickPad()
		return
	}

	if len(line.Sender) > s.nickPad {
		s.nickPad = len(line.Sender)
	}
}

func (s *Scrollback) recomputeNickPad() {
	max := 0
	s.Each(func(l *BufferLine) bool {
		if len(l.Sender) > max {
			max = len(l.Sender)
		}
		return true
	})
	s.nickPad = max
}

// NickPad returns the current sender-column alignment width.
func (s *Scrollback) NickPad() int { return s.nickPad }

// Each calls fn for every retained line, oldest first. Stops early if fn
// returns false.
func (s *Scrollback) Each(fn func(l *BufferLine) bool) {
	for i := 0; i < s.count; i++ {
		idx := (s.start + i) % scrollbackCap
		if !fn(&s.lines[idx]) {
			return
		}
	}
}

// Lines returns a copy of the retained lines, oldest first.
func (s *Scrollback) Lines() []BufferLine {
	out := make([]BufferLine, 0, s.count)
	s.Each(func(l *BufferLine) bool {
		out = append(out, *l)
		return true
	})
	return out
}

// defaultTermWidth is used to precompute rendered-row counts when no
// terminal width has been supplied (e.g. non-interactive/test contexts).
const defaultTermWidth = 80

// renderedRows estimates how many terminal rows text occupies at the
// given column width. A width of 0 or less is treated as "unbounded"
// (always one row), since that's the only sane behavior for a
// non-interactive renderer.
func renderedRows(text string, width int) int {
	if width <= 0 || len(text) == 0 {
		return 1
	}
	rows := (len(text) + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	return rows
}

// MarkResized recomputes every retained line's row count for the new
// terminal width, eagerly rather than through a lazily checked "resized"
// flag, since recomputation here is cheap and keeps the model simpler.
// Nothing in this module calls it; lines appended afterwards are still
// measured at defaultTermWidth.
func (s *Scrollback) MarkResized(width int) {
	s.Each(func(l *BufferLine) bool {
		l.rows = renderedRows(l.Text, width)
		return true
	})
}
