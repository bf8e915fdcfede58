// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"time"

	"github.com/lessandro/rirc/internal/rirclog"
)

// Engine owns the ring of all servers and advances every one of them on
// each call to Tick. It is the single entry point driven by a UI's
// input-poll loop (nominally every ~200ms, or immediately on input
// activity); nothing inside the engine blocks.
type Engine struct {
	Servers  []*Server
	Handlers *Caller

	log rirclog.Logger
}

// NewEngine returns an empty Engine. A nil logger discards all output.
func NewEngine(log rirclog.Logger) *Engine {
	if log == nil {
		log = rirclog.Discard()
	}
	return &Engine{
		Handlers: newCaller(),
		log:      log,
	}
}

// AddServer validates conf, constructs a Server owned by the engine, and
// returns it. The server starts Disconnected; call Server.Connect (or
// Dispatch "/connect") to begin.
func (eng *Engine) AddServer(conf ServerConfig) (*Server, error) {
	srv, err := NewServer(conf, eng.log)
	if err != nil {
		return nil, err
	}
	eng.Servers = append(eng.Servers, srv)
	return srv, nil
}

// RemoveServer disconnects and drops srv from the engine's ring.
func (eng *Engine) RemoveServer(srv *Server) {
	srv.Disconnect(defaultQuitMessage())
	for i, s := range eng.Servers {
		if s == srv {
			eng.Servers = append(eng.Servers[:i], eng.Servers[i+1:]...)
			return
		}
	}
}

// Tick advances every server by exactly one step: completing pending
// connects, evaluating liveness/reconnect timers, and draining any
// readable socket, in that order, for each server in registration order.
// Tick never blocks: each server's socket read is bounded by
// nonBlockingPollTimeout.
func (eng *Engine) Tick() {
	now := time.Now()

	for _, srv := range eng.Servers {
		switch srv.state {
		case Resolving:
			if !eng.completeResolving(srv) {
				// Still pending; nothing else to do for this server.
				continue
			}
		case Backoff:
			if !now.Before(srv.reconnectTime) {
				srv.startResolving()
			}
			continue
		case Disconnected:
			continue
		}

		if srv.state == Connected || srv.state == Pinging {
			eng.checkLiveness(srv, now)
		}

		if srv.conn != nil && (srv.state == Connected || srv.state == Pinging) {
			eng.drainServer(srv)
		}
	}
}

// completeResolving observes srv's pending-connect handle. Returns true
// if the attempt has resolved (success or failure), false if still in
// flight.
func (eng *Engine) completeResolving(srv *Server) bool {
	res := srv.pending.Load()
	if res == nil {
		return false
	}

	srv.pending.Store(nil)
	srv.pendingCancel = nil

	if res.Err != nil {
		srv.scheduleBackoff(res.Err.Error())
		return true
	}

	srv.onConnected(res.Conn)
	return true
}

func (eng *Engine) checkLiveness(srv *Server, now time.Time) {
	idle := now.Sub(srv.latencyTime)

	if idle > timeoutAfterIdle {
		srv.scheduleBackoff((&PingTimeoutError{Host: srv.Config.Host}).Error())
		return
	}

	if srv.state == Connected && idle > pingAfterIdle && !srv.pinging {
		_ = srv.sendRaw("PING :" + srv.Config.Host)
		srv.pinging = true
		srv.state = Pinging
	}

	if srv.state == Pinging && idle > latencyAfterIdle {
		srv.latencyDelta = idle
	}
}

func (eng *Engine) drainServer(srv *Server) {
	res := srv.conn.drain()

	if res.overflow {
		srv.System("input buffer overflow, dropping")
	}

	for _, line := range res.lines {
		srv.latencyTime = time.Now()
		srv.latencyDelta = 0
		srv.pinging = false
		if srv.state == Pinging {
			srv.state = Connected
		}

		msg, err := ParseMessage(line)
		if err != nil {
			srv.log.Debug("dropping malformed line", "line", line)
			continue
		}

		dispatch(eng, srv, msg)
	}

	if res.hangup {
		srv.scheduleBackoff((&RemoteHangup{Err: res.err}).Error())
	}
}
