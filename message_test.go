// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import "testing"

func TestParseMessagePrefixAndTrailing(t *testing.T) {
	msg, err := ParseMessage(":dan!d@example.com PRIVMSG #chan :hello, world")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if msg.From != "dan" || msg.HostInfo != "d@example.com" {
		t.Fatalf("bad prefix split: from=%q hostinfo=%q", msg.From, msg.HostInfo)
	}
	if msg.Command != "PRIVMSG" {
		t.Fatalf("bad command: %q", msg.Command)
	}
	if len(msg.Params) != 1 || msg.Params[0] != "#chan" {
		t.Fatalf("bad params: %v", msg.Params)
	}
	if !msg.HasTrailing || msg.Trailing != "hello, world" {
		t.Fatalf("bad trailing: %q (has=%v)", msg.Trailing, msg.HasTrailing)
	}
}

func TestParseMessageAtHostPrefix(t *testing.T) {
	msg, err := ParseMessage(":irc.example.com@extra 001 nick :welcome")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if msg.From != "irc.example.com" || msg.HostInfo != "extra" {
		t.Fatalf("bad @ split: from=%q hostinfo=%q", msg.From, msg.HostInfo)
	}
	if msg.Command != "001" {
		t.Fatalf("numeric command should be preserved, got %q", msg.Command)
	}
}

func TestParseMessageNoPrefix(t *testing.T) {
	msg, err := ParseMessage("PING :irc.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if msg.From != "" {
		t.Fatalf("expected no prefix, got %q", msg.From)
	}
	if msg.Command != "PING" || msg.Last() != "irc.example.com" {
		t.Fatalf("bad parse: command=%q last=%q", msg.Command, msg.Last())
	}
}

func TestParseMessageEmptyTrailing(t *testing.T) {
	msg, err := ParseMessage("PRIVMSG #chan :")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !msg.HasTrailing || msg.Trailing != "" {
		t.Fatalf("expected present-but-empty trailing, got %q (has=%v)", msg.Trailing, msg.HasTrailing)
	}
}

func TestParseMessageNames353(t *testing.T) {
	msg, err := ParseMessage(":irc.example.com 353 nick = #chan :@op +voice plain")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if msg.Command != "353" {
		t.Fatalf("bad command: %q", msg.Command)
	}
	if len(msg.Params) != 3 || msg.Params[2] != "#chan" {
		t.Fatalf("bad params: %v", msg.Params)
	}
	if msg.Last() != "@op +voice plain" {
		t.Fatalf("bad names list: %q", msg.Last())
	}
}

func TestParseMessageEmptyLine(t *testing.T) {
	if _, err := ParseMessage(""); err == nil {
		t.Fatalf("expected ProtocolError for empty line")
	}
	if _, err := ParseMessage("   "); err == nil {
		t.Fatalf("expected ProtocolError for whitespace-only line")
	}
}

func TestParseMessageParamCapOverflowsToTrailing(t *testing.T) {
	line := "CMD"
	for i := 0; i < 20; i++ {
		line += " p"
	}
	msg, err := ParseMessage(line)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(msg.Params) != maxParams {
		t.Fatalf("expected %d params, got %d", maxParams, len(msg.Params))
	}
	if !msg.HasTrailing || msg.Trailing == "" {
		t.Fatalf("expected overflow params folded into trailing, got %q", msg.Trailing)
	}
}

func TestMessageStringRoundtrip(t *testing.T) {
	msg := &Message{
		From:     "dan",
		HostInfo: "d@example.com",
		Command:  "PRIVMSG",
		Params:   []string{"#chan"},
		Trailing: "hello",
		HasTrailing: true,
	}
	want := ":dan!d@example.com PRIVMSG #chan :hello"
	if got := msg.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFormatLineTooLong(t *testing.T) {
	long := make([]byte, maxPayloadLen+10)
	for i := range long {
		long[i] = 'a'
	}
	_, err := formatLine("PRIVMSG #chan :%s", string(long))
	se, ok := err.(*SendError)
	if !ok || se.Kind != SendTooLong {
		t.Fatalf("expected SendTooLong, got %#v", err)
	}
}

func TestFormatLineInvalidFormat(t *testing.T) {
	_, err := formatLine("PRIVMSG #chan :%d", "not a number")
	se, ok := err.(*SendError)
	if !ok || se.Kind != SendInvalidFormat {
		t.Fatalf("expected SendInvalidFormat, got %#v", err)
	}
}

func TestFormatLineEmptyPayloadIsNoop(t *testing.T) {
	line, err := formatLine("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if line != "" {
		t.Fatalf("expected empty payload, got %q", line)
	}
}
