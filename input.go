// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

// inputCap is the fixed capacity of a channel's input history ring.
const inputCap = 15

// InputHistory is a fixed-capacity ring of previously submitted input
// lines, plus the line currently being composed. Backed by a slice
// rather than an intrusive doubly-linked ring, matching this package's
// slice-based style elsewhere.
//
// head is always the composing line. Navigating back only moves window;
// history[window] is never mutated by typing: an edit made while
// browsing (Set) replaces head with the edited text and returns to it —
// copy-on-edit — so scrolling through or editing from history never
// perturbs the history itself.
type InputHistory struct {
	history []string // oldest first, bounded to inputCap
	head    string   // the line currently being composed
	window  int      // -1 == viewing head; 0..len(history)-1 == viewing history[window]
}

// NewInputHistory returns an empty input history.
func NewInputHistory() *InputHistory {
	return &InputHistory{window: -1}
}

// Current returns the line currently visible to the user: either the
// composing line, or the historical entry being browsed.
func (h *InputHistory) Current() string {
	if h.window < 0 {
		return h.head
	}
	return h.history[h.window]
}

// Set overwrites the currently visible line. If the user is browsing
// history, this performs copy-on-edit: the historical entry is left
// untouched and head becomes a fresh copy that receives the edit.
func (h *InputHistory) Set(text string) {
	if h.window >= 0 {
		h.window = -1
	}
	h.head = text
}

// Back moves the browsing window toward older entries, stopping at the
// oldest. A no-op if there is no history.
func (h *InputHistory) Back() {
	if len(h.history) == 0 {
		return
	}
	if h.window < 0 {
		h.window = len(h.history) - 1
		return
	}
	if h.window > 0 {
		h.window--
	}
}

// Forward moves the browsing window toward newer entries; moving past
// the newest returns to the composing line.
func (h *InputHistory) Forward() {
	if h.window < 0 {
		return
	}
	if h.window >= len(h.history)-1 {
		h.window = -1
		return
	}
	h.window++
}

// Submit commits the currently visible line (the composing line, or the
// historical entry being browsed) to history (if non-empty), evicting
// the oldest entry when full, and resets to a blank composing line.
func (h *InputHistory) Submit() (submitted string) {
	submitted = h.Current()
	h.window = -1

	if submitted != "" {
		if len(h.history) >= inputCap {
			h.history = h.history[1:]
		}
		h.history = append(h.history, submitted)
	}

	h.head = ""
	return submitted
}
