// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"errors"
	"strings"
)

// ErrInvalidTarget is returned by a Commands method when passed a
// syntactically invalid nick/channel.
type ErrInvalidTarget struct {
	Target string
}

func (e *ErrInvalidTarget) Error() string { return "invalid target: " + e.Target }

// ErrUnknownCommand is returned by Dispatch for an unrecognized
// "/command".
var ErrUnknownCommand = errors.New("unknown command")

// Commands holds the high-level, validated server actions used both by
// Dispatch (for "/"-prefixed user input) and directly by callers that
// don't want to go through string parsing.
type Commands struct {
	srv *Server
}

// Nick changes the server's active nickname.
func (cmd *Commands) Nick(name string) error {
	if !IsValidNick(name) {
		return &ErrInvalidTarget{Target: name}
	}
	return cmd.srv.sendRaw("NICK " + name)
}

// Join enters channel.
func (cmd *Commands) Join(channel string) error {
	if !IsValidChannel(channel) {
		return &ErrInvalidTarget{Target: channel}
	}
	return cmd.srv.sendRaw("JOIN " + channel)
}

// Part leaves channel with an optional reason.
func (cmd *Commands) Part(channel, reason string) error {
	if !IsValidChannel(channel) {
		return &ErrInvalidTarget{Target: channel}
	}
	if ch := cmd.srv.LookupChannel(channel); ch != nil && ch.Parted {
		return &ErrInvalidTarget{Target: channel}
	}
	if reason == "" {
		return cmd.srv.sendRaw("PART " + channel)
	}
	return cmd.srv.sendRaw("PART " + channel + " :" + reason)
}

// Msg sends a PRIVMSG to target and, on success, echoes it into the
// local scrollback of that channel/query (since the server does not echo
// our own messages back to us by default).
func (cmd *Commands) Msg(target, text string) error {
	if target == "" || text == "" {
		return &ErrInvalidTarget{Target: target}
	}
	if ch := cmd.srv.LookupChannel(target); ch != nil && ch.Parted {
		return &ErrInvalidTarget{Target: target}
	}
	if err := cmd.srv.Sendf("PRIVMSG %s :%s", target, text); err != nil {
		return err
	}
	cmd.srv.EnsureChannel(target).AppendLine(chatLine(cmd.srv.Nick, text))
	return nil
}

// Me sends a CTCP ACTION to target, and echoes it locally.
func (cmd *Commands) Me(target, text string) error {
	if target == "" {
		return &ErrInvalidTarget{Target: target}
	}
	if ch := cmd.srv.LookupChannel(target); ch != nil && ch.Parted {
		return &ErrInvalidTarget{Target: target}
	}
	if err := cmd.srv.Sendf("PRIVMSG %s :%s", target, formatCTCPAction(text)); err != nil {
		return err
	}
	cmd.srv.EnsureChannel(target).AppendLine(BufferLine{
		Sender: "*", Text: cmd.srv.Nick + " " + text, Type: LineChat,
	})
	return nil
}

// Raw sends line verbatim, appending CR LF.
func (cmd *Commands) Raw(line string) error {
	return cmd.srv.sendRaw(line)
}

func chatLine(sender, text string) BufferLine {
	return BufferLine{Sender: sender, Text: text, Type: LineChat}
}

// Dispatch interprets one line of user input against the focused server
// and channel. Lines not starting with "/" are sent as a PRIVMSG to the
// focused channel. The set of recognized commands matches the in-client
// command surface this engine is required to implement: /connect,
// /disconnect, /quit, /join, /part, /nick, /msg, /me, /ignore, /unignore,
// /raw, /clear.
func Dispatch(eng *Engine, srv *Server, focused *Channel, line string) error {
	if !strings.HasPrefix(line, "/") {
		if focused == nil || focused.Type == BufferServer {
			return &ErrInvalidTarget{Target: ""}
		}
		return srv.Cmd.Msg(focused.Name, line)
	}

	verb, rest := splitCommand(line[1:])
	switch strings.ToLower(verb) {
	case "connect":
		srv.Connect()
		return nil
	case "disconnect":
		srv.Disconnect(rest)
		return nil
	case "quit":
		if rest == "" {
			rest = defaultQuitMessage()
		}
		srv.Disconnect(rest)
		return nil
	case "join":
		return srv.Cmd.Join(rest)
	case "part":
		if focused == nil {
			return &ErrInvalidTarget{Target: ""}
		}
		return srv.Cmd.Part(focused.Name, rest)
	case "nick":
		return srv.Cmd.Nick(rest)
	case "msg":
		target, text := splitCommand(rest)
		return srv.Cmd.Msg(target, text)
	case "me":
		if focused == nil {
			return &ErrInvalidTarget{Target: ""}
		}
		return srv.Cmd.Me(focused.Name, rest)
	case "ignore":
		srv.Ignore.Add(rest)
		return nil
	case "unignore":
		srv.Ignore.Remove(rest)
		return nil
	case "raw":
		return srv.Cmd.Raw(rest)
	case "clear":
		if focused != nil {
			focused.Scrollback = NewScrollback()
		}
		return nil
	default:
		return ErrUnknownCommand
	}
}

// splitCommand splits "verb rest of line" on the first space.
func splitCommand(s string) (verb, rest string) {
	s = strings.TrimLeft(s, " ")
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeft(s[idx+1:], " ")
}
