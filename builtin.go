// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lessandro/rirc/internal/avl"
)

// builtinHandler processes one parsed message for one server, mutating
// the channel/nicklist model and appending any resulting lines. This is
// the engine's fixed built-in dispatch table, run before any externally
// registered Caller hooks.
type builtinHandler func(eng *Engine, srv *Server, msg *Message)

var builtins = map[string]builtinHandler{
	"001":            handleWelcome,
	"002":            handleYourHost,
	"003":            handleCreated,
	"PING":           handlePing,
	"PONG":           handlePong,
	"433":            handleNickInUse,
	"436":            handleNickInUse,
	"437":            handleNickInUse,
	"JOIN":           handleJoin,
	"PART":           handlePart,
	"QUIT":           handleQuit,
	"NICK":           handleNick,
	"KICK":           handleKick,
	"MODE":           handleMode,
	"324":            handleMode, // RPL_CHANNELMODEIS
	"PRIVMSG":        handlePrivmsg,
	"NOTICE":         handlePrivmsg,
	"353":            handleNames, // RPL_NAMREPLY
}

// numericsToStatus is the set of numeric replies that are simply
// appended verbatim to the server status buffer. Numerics with a
// dedicated builtin handler above (001, 002, 003, 353, 433/436/437) call
// appendNumeric themselves instead, since spec.md §4.4 requires every one
// of these numerics to land in the buffer regardless of what other side
// effects it triggers.
var numericsToStatus = map[string]bool{
	"004": true, "005": true,
	"332": true, "333": true, "366": true,
	"372": true, "375": true, "376": true,
}

// dispatch runs the built-in handler for msg.Command (if any), then
// falls through to the generic numeric-to-status-line behavior, then
// runs external hooks.
func dispatch(eng *Engine, srv *Server, msg *Message) {
	if h, ok := builtins[msg.Command]; ok {
		h(eng, srv, msg)
	} else if numericsToStatus[msg.Command] || isErrorNumeric(msg.Command) {
		appendNumeric(srv, msg)
	}

	eng.Handlers.run(eng, srv, msg)
}

// handleCreated records the IRCd build date reported by RPL_CREATED
// (003), e.g. "This server was created Sat Jan 1 2022 at 00:00:00 UTC",
// and still appends the line to the status buffer like any other
// numeric. Servers phrase this in enough different ways that only a
// best-effort parse is attempted; failures are silently ignored.
func handleCreated(eng *Engine, srv *Server, msg *Message) {
	appendNumeric(srv, msg)

	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	fields := strings.Fields(msg.Last())
	found := -1
	for i, word := range fields {
		for _, day := range days {
			if word == day+"," || word == day {
				found = i
			}
		}
	}
	if found < 0 {
		return
	}

	compiled, err := dateparse.ParseAny(strings.Join(fields[found:], " "))
	if err != nil {
		return
	}
	srv.Compiled = compiled
}

func isErrorNumeric(cmd string) bool {
	if len(cmd) != 3 {
		return false
	}
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return false
	}
	return n >= 400
}

func appendNumeric(srv *Server, msg *Message) {
	srv.StatusBuffer().AppendLine(BufferLine{
		Time:   time.Now(),
		Sender: "--",
		Text:   strings.Join(msg.Params, " ") + " " + msg.Last(),
	})
}

func handleWelcome(eng *Engine, srv *Server, msg *Message) {
	appendNumeric(srv, msg)

	if len(msg.Params) > 0 {
		srv.Nick = msg.Params[0]
	}
	srv.System("Connected to %s", srv.hostLabel())

	// "Welcome to the <network> IRC Network, nick!user@host"
	words := strings.Fields(msg.Last())
	for i, word := range words {
		if strings.EqualFold(word, "the") && i+1 < len(words) {
			srv.Network = words[i+1]
			break
		}
	}

	for _, ch := range srv.Config.Channels {
		if err := srv.Sendf("JOIN %s", ch); err != nil {
			srv.System("join %s failed: %s", ch, err)
		}
	}
}

// handleYourHost parses RPL_YOURHOST (002), of the form "Your host is
// <host>, running version <version>", recording both on Server alongside
// the network name learned from 001 and the build date learned from 003.
func handleYourHost(eng *Engine, srv *Server, msg *Message) {
	appendNumeric(srv, msg)

	const prefix = "Your host is "
	const infix = ", running version "
	text := msg.Last()
	if !strings.HasPrefix(text, prefix) || !strings.Contains(text, infix) {
		return
	}

	rest := strings.TrimPrefix(text, prefix)
	parts := strings.SplitN(rest, infix, 2)
	if len(parts) != 2 {
		return
	}
	srv.IRCdHost = parts[0]
	srv.IRCdVersion = parts[1]
}

func handlePing(eng *Engine, srv *Server, msg *Message) {
	if msg.HasTrailing {
		_ = srv.sendRaw("PONG :" + msg.Trailing)
	} else {
		_ = srv.sendRaw("PONG")
	}
}

func handlePong(eng *Engine, srv *Server, msg *Message) {
	srv.pinging = false
	srv.latencyDelta = 0
}

// handleNickInUse implements the nick-retry-on-collision behavior: try
// the next nickname configured in ServerConfig.Nicks.
func handleNickInUse(eng *Engine, srv *Server, msg *Message) {
	appendNumeric(srv, msg)

	srv.nickIndex++
	if srv.nickIndex >= len(srv.Config.Nicks) {
		srv.System("All configured nicknames are in use")
		return
	}
	srv.Nick = srv.Config.Nicks[srv.nickIndex]
	_ = srv.sendRaw("NICK " + srv.Nick)
}

func handleJoin(eng *Engine, srv *Server, msg *Message) {
	target := msg.Arg(0)
	if target == "" {
		return
	}

	if ToRFC1459(msg.From) == ToRFC1459(srv.Nick) {
		ch := srv.EnsureChannel(target)
		ch.Parted = false
		ch.AddNick(srv.Nick)
		ch.AppendLine(BufferLine{Time: time.Now(), Sender: ">>", Text: "you have joined " + target})
		return
	}

	ch := srv.LookupChannel(target)
	if ch == nil {
		return
	}
	ch.AddNick(msg.From)
	if srv.Ignore.Ignored(msg.From) || srv.overJoinPartQuitThreshold(ch) {
		return
	}
	ch.AppendLine(BufferLine{Time: time.Now(), Sender: ">>", Text: msg.From + " has joined " + target})
}

func handlePart(eng *Engine, srv *Server, msg *Message) {
	target := msg.Arg(0)
	ch := srv.LookupChannel(target)
	if ch == nil {
		return
	}

	overThreshold := srv.overJoinPartQuitThreshold(ch)

	ch.RemoveNick(msg.From)

	if ToRFC1459(msg.From) == ToRFC1459(srv.Nick) {
		ch.Parted = true
	}

	if srv.Ignore.Ignored(msg.From) || overThreshold {
		return
	}
	ch.AppendLine(BufferLine{Time: time.Now(), Sender: "<<", Text: msg.From + " has left " + target})
}

func handleQuit(eng *Engine, srv *Server, msg *Message) {
	ignored := srv.Ignore.Ignored(msg.From)
	for _, ch := range srv.Channels {
		if ch.Type == BufferServer {
			continue
		}
		overThreshold := srv.overJoinPartQuitThreshold(ch)
		if ch.RemoveNick(msg.From) != avl.Removed {
			continue
		}
		if !ignored && !overThreshold {
			ch.AppendLine(BufferLine{Time: time.Now(), Sender: "<<", Text: msg.From + " has quit (" + msg.Last() + ")"})
		}
	}
}

func handleNick(eng *Engine, srv *Server, msg *Message) {
	newNick := msg.Last()
	if newNick == "" {
		return
	}

	if ToRFC1459(msg.From) == ToRFC1459(srv.Nick) {
		srv.Nick = newNick
	}

	for _, ch := range srv.Channels {
		if ch.Type == BufferServer {
			continue
		}
		if !ch.UserIn(msg.From) {
			continue
		}
		ch.RenameNick(msg.From, newNick)
		if !srv.Ignore.Ignored(msg.From) {
			ch.AppendLine(BufferLine{Time: time.Now(), Sender: "--", Text: msg.From + " is now known as " + newNick})
		}
	}
}

func handleKick(eng *Engine, srv *Server, msg *Message) {
	target := msg.Arg(0)
	victim := msg.Arg(1)
	ch := srv.LookupChannel(target)
	if ch == nil || victim == "" {
		return
	}

	ch.RemoveNick(victim)
	ch.AppendLine(BufferLine{Time: time.Now(), Sender: "--", Text: victim + " was kicked by " + msg.From + " (" + msg.Last() + ")"})

	if ToRFC1459(victim) == ToRFC1459(srv.Nick) {
		ch.Parted = true
	}
}

func handleMode(eng *Engine, srv *Server, msg *Message) {
	params := msg.Params
	if msg.Command == "324" && len(params) > 0 {
		// RPL_CHANNELMODEIS echoes the requesting nick as params[0].
		params = params[1:]
	}
	if len(params) < 2 {
		return
	}

	target := params[0]
	flags := params[1]

	if IsValidChannel(target) {
		ch := srv.LookupChannel(target)
		if ch == nil {
			return
		}
		ch.Modes.Apply(flags)
		return
	}

	if ToRFC1459(target) == ToRFC1459(srv.Nick) {
		srv.UserModes.Apply(flags)
	}
}

func handlePrivmsg(eng *Engine, srv *Server, msg *Message) {
	if srv.Ignore.Ignored(msg.From) {
		return
	}

	target := msg.Arg(0)
	text := msg.Last()

	var ch *Channel
	if ToRFC1459(target) == ToRFC1459(srv.Nick) {
		ch = srv.EnsureChannel(msg.From)
	} else {
		ch = srv.LookupChannel(target)
		if ch == nil {
			return
		}
	}

	sender := msg.From
	if body, isAction := stripCTCPAction(text); isAction {
		sender = "*"
		text = msg.From + " " + body
	}

	line := BufferLine{Time: time.Now(), Sender: sender, Text: text, Type: LineChat}

	if msg.Command == "PRIVMSG" && checkPinged(text, srv.Nick) {
		ch.AppendPinged(line)
		return
	}

	ch.AppendLine(line)
}

func handleNames(eng *Engine, srv *Server, msg *Message) {
	appendNumeric(srv, msg)

	if len(msg.Params) < 3 {
		return
	}
	target := msg.Params[2]
	ch := srv.LookupChannel(target)
	if ch == nil {
		return
	}

	for _, nick := range strings.Fields(msg.Last()) {
		bare, _ := stripNickPrefix(nick)
		if bare != "" {
			ch.AddNick(bare)
		}
	}
}
