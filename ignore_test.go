// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"reflect"
	"testing"

	"github.com/lessandro/rirc/internal/avl"
)

func TestIgnoreSetAddIsCaseInsensitive(t *testing.T) {
	var s IgnoreSet

	if res := s.Add("Dan"); res != avl.Inserted {
		t.Fatalf("expected Inserted, got %v", res)
	}
	if !s.Ignored("dan") || !s.Ignored("DAN") || !s.Ignored("Dan") {
		t.Fatalf("expected case-insensitive membership")
	}
	if res := s.Add("dan"); res != avl.AlreadyPresent {
		t.Fatalf("expected re-adding same nick to report AlreadyPresent, got %v", res)
	}
}

func TestIgnoreSetRemove(t *testing.T) {
	var s IgnoreSet
	s.Add("dan")

	if res := s.Remove("DAN"); res != avl.Removed {
		t.Fatalf("expected Removed, got %v", res)
	}
	if s.Ignored("dan") {
		t.Fatalf("expected dan no longer ignored after Remove")
	}
	if res := s.Remove("dan"); res != avl.NotFound {
		t.Fatalf("expected NotFound removing an absent nick, got %v", res)
	}
}

func TestIgnoreSetListIsSortedAndLen(t *testing.T) {
	var s IgnoreSet
	s.Add("charlie")
	s.Add("alice")
	s.Add("bob")

	if s.Len() != 3 {
		t.Fatalf("expected Len() == 3, got %d", s.Len())
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"alice", "bob", "charlie"}) {
		t.Fatalf("expected sorted nicks, got %v", got)
	}
}
