// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"time"
)

// recvBufSize is the fixed capacity of a server's receive accumulator
// (BUFFSIZE in the original C sources).
const recvBufSize = 512

// nonBlockingPollTimeout bounds how long a single tick's read attempt may
// block, standing in for the original implementation's O_NONBLOCK socket
// plus EAGAIN polling loop.
const nonBlockingPollTimeout = 10 * time.Millisecond

// serverConn wraps the live socket for one server: the underlying
// net.Conn (possibly wrapped in TLS) plus the fixed-size receive
// accumulator described in the session-engine design.
type serverConn struct {
	sock net.Conn
	buf  [recvBufSize]byte
	len  int
}

// WriteLine writes line plus a trailing CR LF.
func (c *serverConn) WriteLine(line string) error {
	_, err := c.sock.Write([]byte(line + "\r\n"))
	return err
}

// Close closes the underlying socket.
func (c *serverConn) Close() error {
	if c.sock == nil {
		return nil
	}
	return c.sock.Close()
}

// drainResult is what one tick's non-blocking read attempt produced.
type drainResult struct {
	lines    []string
	overflow bool
	hangup   bool
	err      error
}

// drain performs one non-blocking read attempt (bounded by
// nonBlockingPollTimeout) and splits whatever is accumulated into
// complete lines, accepting "\r\n", "\n", or "\r" as terminators. A
// partial line remains buffered for the next call. If the accumulator
// fills without ever finding a terminator, it's dropped (overflow=true)
// and the connection is retained, per spec.
func (c *serverConn) drain() drainResult {
	_ = c.sock.SetReadDeadline(time.Now().Add(nonBlockingPollTimeout))

	n, err := c.sock.Read(c.buf[c.len:])
	if n > 0 {
		c.len += n
	}

	var res drainResult

	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			// No data available this tick; not an error condition.
		} else {
			res.hangup = true
			res.err = err
		}
	}
	if n == 0 && err == nil {
		res.hangup = true
	}

	res.lines = c.extractLines()

	if c.len >= recvBufSize {
		// No terminator found in a full buffer: drop and warn, keep the
		// connection.
		c.len = 0
		res.overflow = true
	}

	return res
}

func (c *serverConn) extractLines() []string {
	var lines []string

	for {
		idx := -1
		for i := 0; i < c.len; i++ {
			if c.buf[i] == '\n' || c.buf[i] == '\r' {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}

		lines = append(lines, string(c.buf[:idx]))

		skip := idx + 1
		if skip < c.len && c.buf[idx] == '\r' && c.buf[skip] == '\n' {
			skip++
		}

		remaining := c.len - skip
		copy(c.buf[:remaining], c.buf[skip:c.len])
		c.len = remaining
	}

	return lines
}

// connectWorker resolves conf.Host, dials it, optionally performs a TLS
// handshake, and publishes exactly one connectResult to pending. If ctx
// is cancelled first it publishes nothing and closes any socket it had
// opened. It never touches any Server state directly — per the concurrency model,
// the only shared state it writes is the one-shot pending pointer,
// observed by the engine on a later tick.
func connectWorker(ctx context.Context, conf ServerConfig, pending *atomic.Pointer[connectResult]) {
	host := conf.Host
	port := strconv.Itoa(conf.Port)

	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			pending.Store(&connectResult{Err: &ResolveError{Host: host, Err: err}})
			return
		}
		pending.Store(&connectResult{Err: &ConnectError{Host: host, Err: err}})
		return
	}

	sock := net.Conn(raw)

	if conf.TLS {
		tlsConf := conf.TLSConfig
		if tlsConf == nil {
			tlsConf = &tls.Config{ServerName: host}
		}
		tlsConn := tls.Client(raw, tlsConf)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			raw.Close()
			if ctx.Err() != nil {
				return
			}
			pending.Store(&connectResult{Err: &TLSError{Host: host, Err: err}})
			return
		}
		sock = tlsConn
	}

	if ctx.Err() != nil {
		sock.Close()
		return
	}

	ipStr := ""
	if addr, ok := sock.RemoteAddr().(*net.TCPAddr); ok {
		ipStr = addr.IP.String()
	}

	pending.Store(&connectResult{Conn: &serverConn{sock: sock}, IPStr: ipStr})
}
