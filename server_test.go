// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"bytes"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Host:  "irc.example.com",
		Nicks: []string{"nick"},
		User:  "user",
		Real:  "real",
	}, nil)
	if err != nil {
		t.Fatalf("NewServer: %s", err)
	}
	return srv
}

func TestServerConnectSetsResolving(t *testing.T) {
	srv := newTestServer(t)
	if srv.State() != Disconnected {
		t.Fatalf("expected Disconnected initially, got %s", srv.State())
	}

	srv.Connect()
	if srv.State() != Resolving {
		t.Fatalf("expected Resolving after Connect, got %s", srv.State())
	}
	if srv.pendingCancel == nil {
		t.Fatalf("expected a pendingCancel to be set")
	}

	srv.Disconnect("")
	if srv.State() != Disconnected {
		t.Fatalf("expected Disconnected after Disconnect, got %s", srv.State())
	}
}

func TestServerOnConnectedResetsReconnectState(t *testing.T) {
	srv := newTestServer(t)
	srv.reconnectDelta = 60 * time.Second
	srv.reconnectTime = time.Now().Add(time.Minute)

	srv.onConnected(&serverConn{sock: &fakeConn{}})

	if srv.State() != Connected {
		t.Fatalf("expected Connected, got %s", srv.State())
	}
	if srv.reconnectDelta != 0 {
		t.Fatalf("expected reconnectDelta reset to 0, got %s", srv.reconnectDelta)
	}
	if !srv.reconnectTime.IsZero() {
		t.Fatalf("expected reconnectTime reset to zero")
	}
}

func TestOnConnectedSendsRegistration(t *testing.T) {
	srv := newTestServer(t)
	srv.Config.Pass = "hunter2"
	fc := &fakeConn{}

	srv.onConnected(&serverConn{sock: fc})

	out := fc.String()
	if !bytes.Contains([]byte(out), []byte("PASS :hunter2\r\n")) {
		t.Fatalf("expected PASS sent, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("NICK nick\r\n")) {
		t.Fatalf("expected NICK sent, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("USER user 0 * :real\r\n")) {
		t.Fatalf("expected USER sent, got %q", out)
	}
}

func TestScheduleBackoffDoublesEachFailure(t *testing.T) {
	srv := newTestServer(t)

	srv.scheduleBackoff("first failure")
	if srv.State() != Backoff {
		t.Fatalf("expected Backoff, got %s", srv.State())
	}
	if srv.reconnectDelta != initialReconnectDelay {
		t.Fatalf("expected first backoff == initialReconnectDelay, got %s", srv.reconnectDelta)
	}

	srv.scheduleBackoff("second failure")
	if srv.reconnectDelta != 2*initialReconnectDelay {
		t.Fatalf("expected second backoff to double, got %s", srv.reconnectDelta)
	}

	srv.scheduleBackoff("third failure")
	if srv.reconnectDelta != 4*initialReconnectDelay {
		t.Fatalf("expected third backoff to double again, got %s", srv.reconnectDelta)
	}
}

func TestScheduleBackoffResetsAfterSuccessfulConnect(t *testing.T) {
	srv := newTestServer(t)
	srv.scheduleBackoff("failure")
	srv.scheduleBackoff("failure")
	if srv.reconnectDelta == initialReconnectDelay {
		t.Fatalf("test setup: expected delta to have doubled at least once")
	}

	srv.onConnected(&serverConn{sock: &fakeConn{}})

	srv.scheduleBackoff("failure again")
	if srv.reconnectDelta != initialReconnectDelay {
		t.Fatalf("expected reconnect delta to restart at initialReconnectDelay after a successful connect, got %s", srv.reconnectDelta)
	}
}

func TestEngineCheckLivenessPingTimeoutSchedulesBackoff(t *testing.T) {
	srv := newTestServer(t)
	eng := NewEngine(nil)
	eng.Servers = append(eng.Servers, srv)

	srv.onConnected(&serverConn{sock: &fakeConn{}})
	srv.latencyTime = time.Now().Add(-(timeoutAfterIdle + time.Second))

	eng.checkLiveness(srv, time.Now())

	if srv.State() != Backoff {
		t.Fatalf("expected Backoff after liveness timeout, got %s", srv.State())
	}
}

func TestEngineCheckLivenessSendsPingAfterIdle(t *testing.T) {
	srv := newTestServer(t)
	eng := NewEngine(nil)
	eng.Servers = append(eng.Servers, srv)

	fc := &fakeConn{}
	srv.onConnected(&serverConn{sock: fc})
	fc.Reset() // discard the registration bytes

	srv.latencyTime = time.Now().Add(-(pingAfterIdle + time.Second))
	eng.checkLiveness(srv, time.Now())

	if !bytes.Contains(fc.Bytes(), []byte("PING :irc.example.com\r\n")) {
		t.Fatalf("expected keepalive PING, got %q", fc.String())
	}
	if srv.State() != Pinging {
		t.Fatalf("expected Pinging state, got %s", srv.State())
	}
}

func TestCompleteResolvingSuccess(t *testing.T) {
	srv := newTestServer(t)
	eng := NewEngine(nil)
	eng.Servers = append(eng.Servers, srv)
	srv.startResolving()

	srv.pending.Store(&connectResult{Conn: &serverConn{sock: &fakeConn{}}})

	if !eng.completeResolving(srv) {
		t.Fatalf("expected completeResolving to report resolved")
	}
	if srv.State() != Connected {
		t.Fatalf("expected Connected, got %s", srv.State())
	}
}

func TestCompleteResolvingFailureSchedulesBackoff(t *testing.T) {
	srv := newTestServer(t)
	eng := NewEngine(nil)
	eng.Servers = append(eng.Servers, srv)
	srv.startResolving()

	srv.pending.Store(&connectResult{Err: &ConnectError{Host: srv.Config.Host}})

	if !eng.completeResolving(srv) {
		t.Fatalf("expected completeResolving to report resolved")
	}
	if srv.State() != Backoff {
		t.Fatalf("expected Backoff after failed connect, got %s", srv.State())
	}
}

func TestCompleteResolvingStillPending(t *testing.T) {
	srv := newTestServer(t)
	eng := NewEngine(nil)
	srv.startResolving()

	if eng.completeResolving(srv) {
		t.Fatalf("expected completeResolving to report still pending")
	}
	if srv.State() != Resolving {
		t.Fatalf("expected to remain Resolving, got %s", srv.State())
	}
}

func TestDisconnectClearsChannelsButKeepsScrollback(t *testing.T) {
	srv := newTestServer(t)
	ch := srv.EnsureChannel("#go")
	ch.AddNick("dan")
	ch.AppendLine(BufferLine{Sender: "dan", Text: "hello"})

	srv.onConnected(&serverConn{sock: &fakeConn{}})

	srv.Disconnect("leaving")

	if ch.NickCount() != 0 {
		t.Fatalf("expected nick set cleared on disconnect")
	}
	if ch.Scrollback.Len() == 0 {
		t.Fatalf("expected scrollback preserved across disconnect")
	}
}
