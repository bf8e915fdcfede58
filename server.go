// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/lessandro/rirc/internal/avl"
	"github.com/lessandro/rirc/internal/rirclog"
)

// State is one node of the per-server connection state machine described
// in the session-engine design: Disconnected -> Resolving -> Connected ->
// Pinging -> Backoff -> Resolving. A ping timeout has no State of its
// own: it moves the server straight to Backoff.
type State int

const (
	// Disconnected: no socket, no pending connect, no reconnect timer.
	Disconnected State = iota
	// Resolving: a background connect worker is in flight.
	Resolving
	// Connected: socket present, within the liveness window.
	Connected
	// Pinging: idle long enough that a keepalive PING has been sent.
	Pinging
	// Backoff: waiting for reconnectTime before trying again.
	Backoff
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Resolving:
		return "resolving"
	case Connected:
		return "connected"
	case Pinging:
		return "pinging"
	case Backoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// connectResult is the one-shot publication from the background connect
// worker to the engine. Exactly one of Conn or Err is set.
type connectResult struct {
	Conn   *serverConn
	IPStr  string
	Err    error
}

// Server holds all per-connection state for one IRC network: the
// connection state machine, liveness/reconnect timers, the ring of
// channel buffers it owns, and its ignore set. A Server exclusively owns
// its channel ring, its ignore set, and its pending-connect handle.
type Server struct {
	Config ServerConfig

	state State
	Nick  string
	// nickIndex points into Config.Nicks for "try next nick" retry logic
	// on 433 (nickname in use).
	nickIndex int

	UserModes ModeSet

	// Compiled is the IRCd build date reported by RPL_CREATED (003), if
	// the server sent one in a recognizable form. Zero if absent/unparsed.
	Compiled time.Time

	// Network is the network name reported by RPL_WELCOME (001), e.g.
	// "Libera.Chat". Empty if not present in a recognizable form.
	Network string
	// IRCdHost is the leaf hostname reported by RPL_YOURHOST (002).
	IRCdHost string
	// IRCdVersion is the ircd software version reported by RPL_YOURHOST (002).
	IRCdVersion string

	// Channels is the owning ring of buffers; index 0 is always the
	// BufferServer status buffer.
	Channels []*Channel

	Ignore IgnoreSet

	// Cmd exposes validated high-level actions (join/part/msg/...) built
	// on top of Sendf.
	Cmd *Commands

	conn *serverConn

	pending       atomic.Pointer[connectResult]
	pendingCancel context.CancelFunc

	latencyTime  time.Time
	latencyDelta time.Duration
	pinging      bool

	reconnectTime  time.Time
	reconnectDelta time.Duration

	log rirclog.Logger
}

// NewServer constructs a Server in the Disconnected state, with its
// mandatory status buffer already created.
func NewServer(conf ServerConfig, log rirclog.Logger) (*Server, error) {
	if err := conf.isValid(); err != nil {
		return nil, err
	}
	if log == nil {
		log = rirclog.Discard()
	}

	s := &Server{
		Config: conf,
		Nick:   conf.Nicks[0],
		log:    log.With("server", conf.Host),
	}
	s.Channels = append(s.Channels, NewChannel(s.hostLabel(), BufferServer, s))
	s.Cmd = &Commands{srv: s}

	return s, nil
}

func (s *Server) hostLabel() string {
	return s.Config.Host + ":" + strconv.Itoa(s.Config.Port)
}

// StatusBuffer returns the server's mandatory status buffer (always
// Channels[0]).
func (s *Server) StatusBuffer() *Channel { return s.Channels[0] }

// State returns the server's current connection state.
func (s *Server) State() State { return s.state }

// System appends a pseudo-sender system line to the server's status
// buffer.
func (s *Server) System(format string, args ...interface{}) {
	line, err := formatLine(format, args...)
	_ = err // system lines are never rejected for length; best effort.
	if line == "" {
		line = format
	}
	s.StatusBuffer().AppendLine(BufferLine{
		Time:   time.Now(),
		Sender: "--",
		Text:   trimCRLF(line),
		Type:   LineDefault,
	})
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// LookupChannel returns the named channel/private buffer (case-folded
// per RFC 1459), or nil if not present.
func (s *Server) LookupChannel(name string) *Channel {
	folded := ToRFC1459(name)
	for _, c := range s.Channels {
		if ToRFC1459(c.Name) == folded {
			return c
		}
	}
	return nil
}

// EnsureChannel returns the named channel buffer, creating it (as
// BufferChannel or BufferPrivate depending on name) if it doesn't exist.
func (s *Server) EnsureChannel(name string) *Channel {
	if c := s.LookupChannel(name); c != nil {
		return c
	}

	kind := BufferPrivate
	if IsValidChannel(name) {
		kind = BufferChannel
	}

	c := NewChannel(name, kind, s)
	s.Channels = append(s.Channels, c)
	return c
}

// overJoinPartQuitThreshold reports whether ch's nick count exceeds
// Config.JoinPartQuitThreshold, meaning JOIN/PART/QUIT system lines for
// it should be suppressed (the nick set itself is still updated by the
// caller regardless).
func (s *Server) overJoinPartQuitThreshold(ch *Channel) bool {
	if s.Config.JoinPartQuitThreshold <= 0 {
		return false
	}
	return ch.NickCount() > s.Config.JoinPartQuitThreshold
}

// Connect transitions a Disconnected server to Resolving: it spawns the
// background connect worker and appends a "Connecting to ..." system
// line. If a connect attempt is already in flight it appends "Already
// connecting to ...", and if the server is already connected it mirrors
// the original client's "Already connected to ..." message; in both
// cases it does nothing further.
func (s *Server) Connect() {
	switch s.state {
	case Resolving:
		s.System("Already connecting to %s", s.hostLabel())
		return
	case Connected, Pinging:
		s.System("Already connected to %s", s.hostLabel())
		return
	}

	s.System("Connecting to %s", s.hostLabel())
	s.log.Info("connecting", "state", Resolving.String())
	s.startResolving()
}

// startResolving spawns the background connect worker without emitting
// any user-facing message; used both by Connect and by the Backoff ->
// Resolving transition, which already announced itself via
// scheduleBackoff's "Reconnecting in ..." line.
func (s *Server) startResolving() {
	ctx, cancel := context.WithCancel(context.Background())
	s.pendingCancel = cancel
	s.pending.Store(nil)
	s.state = Resolving

	go connectWorker(ctx, s.Config, &s.pending)
}

// Disconnect tears the connection down (or cancels an in-flight connect
// attempt) and transitions to Disconnected. If connected, msg is sent as
// the QUIT reason first.
func (s *Server) Disconnect(msg string) {
	s.log.Info("disconnecting", "state", Disconnected.String(), "reason", msg)

	if s.pendingCancel != nil {
		s.pendingCancel()
		s.pendingCancel = nil
	}

	if s.conn != nil {
		if s.state == Connected || s.state == Pinging {
			if msg == "" {
				msg = defaultQuitMessage()
			}
			_ = s.sendRaw("QUIT :" + msg)
		}
		s.conn.Close()
		s.conn = nil
	}

	wasConnected := s.state == Connected || s.state == Pinging
	s.state = Disconnected
	s.reconnectTime = time.Time{}
	s.reconnectDelta = 0
	s.pinging = false
	s.latencyDelta = 0

	if wasConnected {
		for _, c := range s.Channels {
			if c.Type == BufferServer {
				continue
			}
			c.AppendLine(BufferLine{Time: time.Now(), Sender: "-!!-", Text: "(disconnected)"})
			c.Nicks = avl.Tree{}
			c.Parted = false
		}
	}
}

// onConnected runs the Connected-entry side effects: clears reconnect
// timers, starts the liveness clock, and sends NICK/USER registration.
func (s *Server) onConnected(conn *serverConn) {
	s.log.Info("connected", "state", Connected.String())

	s.conn = conn
	s.state = Connected
	s.reconnectTime = time.Time{}
	s.reconnectDelta = 0
	s.pinging = false
	s.latencyTime = time.Now()
	s.nickIndex = 0
	s.Nick = s.Config.Nicks[0]

	if s.Config.Pass != "" {
		_ = s.sendRaw("PASS :" + s.Config.Pass)
	}
	_ = s.sendRaw("NICK " + s.Nick)
	_ = s.sendRaw("USER " + s.Config.User + " 0 * :" + s.Config.Real)
}

// scheduleBackoff resolves the spec's Open Question: the first backoff
// after a live connection drops uses a flat 15s delay; each subsequent
// consecutive failure doubles the previous delta. A successful connect
// (onConnected) resets reconnectDelta to 0.
func (s *Server) scheduleBackoff(reason string) {
	s.log.Info("scheduling backoff", "state", Backoff.String(), "reason", reason)

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}

	if s.reconnectDelta == 0 {
		s.reconnectDelta = initialReconnectDelay
	} else {
		s.reconnectDelta *= 2
	}

	s.reconnectTime = time.Now().Add(s.reconnectDelta)
	s.state = Backoff
	s.pinging = false

	if reason != "" {
		s.System("%s", reason)
	}
	s.System("Reconnecting in %s", s.reconnectDelta)
}

// sendRaw writes a single already-formatted command line (no CR LF) to
// the socket.
func (s *Server) sendRaw(line string) error {
	if s.conn == nil {
		return &SendError{Kind: SendNotConnected}
	}
	if err := s.conn.WriteLine(line); err != nil {
		return &SendError{Kind: SendIOError, Err: err}
	}
	return nil
}

// Sendf renders format/args and transmits it as one IRC line. See
// formatLine for the exact error contract (NotConnected/InvalidFormat/
// TooLong/IOError).
func (s *Server) Sendf(format string, args ...interface{}) error {
	if s.conn == nil {
		return &SendError{Kind: SendNotConnected}
	}

	payload, err := formatLine(format, args...)
	if err != nil {
		return err
	}
	if payload == "" {
		return nil
	}

	if _, err := s.conn.sock.Write([]byte(payload)); err != nil {
		return &SendError{Kind: SendIOError, Err: err}
	}
	return nil
}
