// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"strings"

	"github.com/lessandro/rirc/internal/avl"
)

// IgnoreSet is an ordered set of lowercased nicks, one per server.
// Membership suppresses routing of PRIVMSG/NOTICE/JOIN/PART/QUIT
// originating from a matching nick.
type IgnoreSet struct {
	tree avl.Tree
}

// Add ignores nick (case-insensitively). Reports whether it was newly
// added.
func (s *IgnoreSet) Add(nick string) avl.InsertResult {
	return s.tree.Insert(strings.ToLower(nick))
}

// Remove un-ignores nick. Reports whether it was present.
func (s *IgnoreSet) Remove(nick string) avl.RemoveResult {
	return s.tree.Remove(strings.ToLower(nick))
}

// Ignored reports whether nick is currently ignored.
func (s *IgnoreSet) Ignored(nick string) bool {
	return s.tree.Contains(strings.ToLower(nick))
}

// Len returns the number of ignored nicks.
func (s *IgnoreSet) Len() int { return s.tree.Len() }

// List returns the ignored nicks in ascending order.
func (s *IgnoreSet) List() []string { return s.tree.Keys() }
