// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"crypto/tls"
	"errors"
	"time"
)

// Version is the application version shown by cmd/rirc's --version flag
// and used to build the default QUIT message.
const Version = "0.1"

// defaultQuitMessage is used when the user does not supply a /quit or
// /disconnect reason.
func defaultQuitMessage() string {
	return "rirc v" + Version
}

// ServerConfig carries the connection parameters for one server, supplied
// once at startup. Entries here are not safe to edit concurrently with a
// running Engine.
type ServerConfig struct {
	// Host is the server hostname or IP. Required.
	Host string
	// Port defaults to 6667, or 6697 when TLS is enabled.
	Port int
	// Pass is the optional server password (PASS command).
	Pass string
	// Nicks is the ordered list of nicknames to try; on a 433 (nickname
	// in use) the next entry is attempted.
	Nicks []string
	// User is the ident/username sent with USER.
	User string
	// Real is the "real name" sent with USER.
	Real string
	// Channels are auto-joined once registration (001) completes.
	Channels []string
	// JoinPartQuitThreshold suppresses JOIN/PART/QUIT system lines in a
	// channel once its nick count exceeds this value (the nick set is
	// still updated either way); 0 means unlimited, never suppress.
	JoinPartQuitThreshold int
	// TLS enables a TLS dial instead of plaintext.
	TLS bool
	// TLSConfig is an optional user-supplied TLS configuration. Only
	// consulted when TLS is true.
	TLSConfig *tls.Config
}

// ErrInvalidConfig is returned when a ServerConfig fails validation.
type ErrInvalidConfig struct {
	Conf ServerConfig
	err  error
}

func (e *ErrInvalidConfig) Error() string { return "invalid configuration: " + e.err.Error() }
func (e *ErrInvalidConfig) Unwrap() error  { return e.err }

// isValid checks and normalizes a ServerConfig, filling in defaults.
func (conf *ServerConfig) isValid() error {
	if conf.Host == "" {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("empty host")}
	}

	if conf.Port == 0 {
		if conf.TLS {
			conf.Port = 6697
		} else {
			conf.Port = 6667
		}
	}
	if conf.Port < 1 || conf.Port > 65535 {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("port outside valid range (1-65535)")}
	}

	if len(conf.Nicks) == 0 {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("no nicknames supplied")}
	}
	for _, n := range conf.Nicks {
		if !IsValidNick(n) {
			return &ErrInvalidConfig{Conf: *conf, err: errors.New("bad nickname specified: " + n)}
		}
	}

	if conf.User == "" {
		conf.User = conf.Nicks[0]
	}
	if !IsValidUser(conf.User) {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("bad user/ident specified: " + conf.User)}
	}

	if conf.Real == "" {
		conf.Real = conf.User
	}

	return nil
}

// Timing constants mirror the original implementation's liveness and
// reconnect thresholds (see original C sources: SERVER_LATENCY_PING_S,
// SERVER_LATENCY_S, SERVER_TIMEOUT_S, RECONNECT_DELTA).
const (
	// pingAfterIdle is how long without inbound bytes before we send a
	// keepalive PING.
	pingAfterIdle = 115 * time.Second
	// latencyAfterIdle is how long without inbound bytes before we start
	// displaying measured latency to the user.
	latencyAfterIdle = 125 * time.Second
	// timeoutAfterIdle is how long without inbound bytes before the
	// connection is considered dead and torn down.
	timeoutAfterIdle = 255 * time.Second
	// initialReconnectDelay is the flat delay used for the first
	// reconnect attempt after a disconnect.
	initialReconnectDelay = 15 * time.Second
)
