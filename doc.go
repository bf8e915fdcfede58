// Copyright 2016-2017 Liam Stanley <me@liamstanley.io>. All rights reserved.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

// Package rirc implements the session engine of a terminal IRC client:
// multiple concurrent server connections, each with its own connection
// state machine, channel/nicklist model, and scrollback/input buffers,
// all advanced by a single Engine.Tick call driven by a UI loop.
//
// The engine never blocks on network I/O. Resolving a server's address
// and completing the TCP/TLS handshake happens on a short-lived
// background goroutine per server; the engine observes the result on
// the next tick. Everything else — parsing incoming lines, running
// handlers, advancing liveness and reconnect timers — happens
// synchronously inside Tick.
package rirc
