// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package rirc

import (
	"math/rand"
	"strings"
)

// AllEvents is the wildcard command used to register a hook that sees
// every parsed message, regardless of command.
const AllEvents = "*"

// Hook is a user-supplied callback invoked after the engine's built-in
// protocol handling has run for a message. Unlike girc's Caller, this
// runs synchronously as part of Engine.Tick — the engine is
// single-threaded, so there is nothing to synchronize. Hooks registered
// for the same command run in no particular order.
type Hook func(eng *Engine, srv *Server, msg *Message)

// Caller manages externally registered hooks, keyed by upper-cased IRC
// command (or AllEvents for a wildcard). It exists so embedders of this
// engine can observe traffic — e.g. to drive a UI redraw — without
// reaching into engine internals.
type Caller struct {
	hooks map[string]map[string]Hook
}

func newCaller() *Caller {
	return &Caller{hooks: map[string]map[string]Hook{}}
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return string(b)
}

// Add registers fn to run whenever a message with the given command (or
// AllEvents) is processed. Returns an id usable with Remove.
func (c *Caller) Add(cmd string, fn Hook) (id string) {
	cmd = strings.ToUpper(cmd)
	if c.hooks[cmd] == nil {
		c.hooks[cmd] = map[string]Hook{}
	}
	id = randID(12)
	c.hooks[cmd][id] = fn
	return id
}

// Remove removes a previously registered hook by id. Reports whether it
// was found.
func (c *Caller) Remove(cmd, id string) bool {
	cmd = strings.ToUpper(cmd)
	m, ok := c.hooks[cmd]
	if !ok {
		return false
	}
	if _, ok := m[id]; !ok {
		return false
	}
	delete(m, id)
	return true
}

// Clear removes every hook registered for cmd.
func (c *Caller) Clear(cmd string) {
	delete(c.hooks, strings.ToUpper(cmd))
}

// Len returns the total number of registered hooks across all commands.
func (c *Caller) Len() (total int) {
	for _, m := range c.hooks {
		total += len(m)
	}
	return total
}

// run invokes every hook registered for msg.Command, then every hook
// registered for AllEvents.
func (c *Caller) run(eng *Engine, srv *Server, msg *Message) {
	for _, fn := range c.hooks[msg.Command] {
		fn(eng, srv, msg)
	}
	for _, fn := range c.hooks[AllEvents] {
		fn(eng, srv, msg)
	}
}
