// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "testing"

func TestInputHistorySubmitAndBrowse(t *testing.T) {
	h := NewInputHistory()

	h.Set("hello")
	if h.Current() != "hello" {
		t.Fatalf("expected Current() == %q, got %q", "hello", h.Current())
	}

	if got := h.Submit(); got != "hello" {
		t.Fatalf("expected Submit() to return %q, got %q", "hello", got)
	}
	if h.Current() != "" {
		t.Fatalf("expected composing line reset after Submit, got %q", h.Current())
	}

	h.Set("world")
	h.Submit()

	h.Back()
	if h.Current() != "world" {
		t.Fatalf("expected Back() to land on most recent entry, got %q", h.Current())
	}
	h.Back()
	if h.Current() != "hello" {
		t.Fatalf("expected second Back() to land on oldest entry, got %q", h.Current())
	}
	h.Back()
	if h.Current() != "hello" {
		t.Fatalf("expected Back() to stop at oldest entry, got %q", h.Current())
	}

	h.Forward()
	if h.Current() != "world" {
		t.Fatalf("expected Forward() to move toward newest, got %q", h.Current())
	}
	h.Forward()
	if h.Current() != "" {
		t.Fatalf("expected Forward() past newest to return to composing line, got %q", h.Current())
	}
}

func TestInputHistoryCopyOnEditDoesNotMutateHistory(t *testing.T) {
	h := NewInputHistory()
	h.Set("original")
	h.Submit()

	h.Back()
	h.Set("edited")

	if h.Current() != "edited" {
		t.Fatalf("expected edit to apply to composing line, got %q", h.Current())
	}

	h.Back()
	if h.Current() != "original" {
		t.Fatalf("expected historical entry untouched by copy-on-edit, got %q", h.Current())
	}
}

func TestInputHistoryEmptySubmitNotRecorded(t *testing.T) {
	h := NewInputHistory()
	h.Set("")
	h.Submit()

	h.Back()
	if h.Current() != "" {
		t.Fatalf("expected empty submit to not be recorded in history")
	}
}

func TestInputHistoryEvictsOldestWhenFull(t *testing.T) {
	h := NewInputHistory()
	for i := 0; i < inputCap+5; i++ {
		h.Set(string(rune('a' + i)))
		h.Submit()
	}

	h.Back()
	for i := 1; i < inputCap; i++ {
		h.Back()
	}

	if h.Current() == "a" {
		t.Fatalf("expected oldest entries to be evicted once over capacity")
	}
}
