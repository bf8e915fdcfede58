// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	rirc "github.com/lessandro/rirc"
	"github.com/lessandro/rirc/internal/rirclog"
)

// serverFlag accumulates one -s/--server occurrence plus whatever -p/-j
// flags follow it, until the next -s or end of args. pflag has no native
// notion of "this flag pairs with the preceding occurrence of that flag"
// (the getopt-style behavior the CLI surface calls for), so args are
// walked by hand below instead of being declared as cobra flags.
type serverFlag struct {
	host     string
	port     int
	channels []string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	servers, rest, err := parseServerFlags(args)
	if err != nil {
		return err
	}

	root := newRootCmd(servers)
	root.SetArgs(rest)
	return root.Execute()
}

func newRootCmd(servers []serverFlag) *cobra.Command {
	var nickCSV, user, real string
	var tlsFlag bool

	cmd := &cobra.Command{
		Use:           "rirc",
		Short:         "a terminal IRC client",
		Version:       rirc.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(servers) == 0 {
				return fmt.Errorf("at least one -s/--server is required")
			}

			nicks := strings.Split(nickCSV, ",")
			for i, n := range nicks {
				nicks[i] = strings.TrimSpace(n)
			}
			if nickCSV == "" {
				return fmt.Errorf("-n/--nick is required")
			}

			log := rirclog.New("rirc", "info", os.Stderr)
			eng := rirc.NewEngine(log)

			for _, sf := range servers {
				conf := rirc.ServerConfig{
					Host:     sf.host,
					Port:     sf.port,
					Nicks:    nicks,
					User:     user,
					Real:     real,
					Channels: sf.channels,
					TLS:      tlsFlag,
				}
				srv, err := eng.AddServer(conf)
				if err != nil {
					return fmt.Errorf("server %s: %w", sf.host, err)
				}
				srv.Connect()
			}

			runLoop(eng)
			return nil
		},
	}

	cmd.Flags().StringVarP(&nickCSV, "nick", "n", "", "comma-separated list of nicknames, tried in order on collision")
	cmd.Flags().StringVarP(&user, "username", "u", "rirc", "ident/username sent with USER")
	cmd.Flags().StringVarP(&real, "realname", "r", "rirc user", "realname sent with USER")
	cmd.Flags().BoolVar(&tlsFlag, "tls", false, "connect to all servers via TLS")
	cmd.Flags().SortFlags = false

	return cmd
}

// parseServerFlags walks args by hand, pulling out every -s/--server
// occurrence and any -p/--port or -j/--join that trails it, and returns
// the remaining args for cobra/pflag to parse normally.
func parseServerFlags(args []string) (servers []serverFlag, rest []string, err error) {
	var cur *serverFlag

	flush := func() {
		if cur != nil {
			servers = append(servers, *cur)
			cur = nil
		}
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		name, val, hasVal := splitFlag(arg)
		switch name {
		case "-s", "--server":
			flush()
			host := val
			if !hasVal {
				i++
				if i >= len(args) {
					return nil, nil, fmt.Errorf("-s/--server requires an argument")
				}
				host = args[i]
			}
			cur = &serverFlag{host: host}

		case "-p", "--port":
			if cur == nil {
				return nil, nil, fmt.Errorf("-p/--port must follow a -s/--server")
			}
			portStr := val
			if !hasVal {
				i++
				if i >= len(args) {
					return nil, nil, fmt.Errorf("-p/--port requires an argument")
				}
				portStr = args[i]
			}
			port, perr := strconv.Atoi(portStr)
			if perr != nil {
				return nil, nil, fmt.Errorf("-p/--port: %w", perr)
			}
			cur.port = port

		case "-j", "--join":
			if cur == nil {
				return nil, nil, fmt.Errorf("-j/--join must follow a -s/--server")
			}
			joinStr := val
			if !hasVal {
				i++
				if i >= len(args) {
					return nil, nil, fmt.Errorf("-j/--join requires an argument")
				}
				joinStr = args[i]
			}
			cur.channels = append(cur.channels, strings.Split(joinStr, ",")...)

		default:
			rest = append(rest, arg)
		}

		i++
	}
	flush()

	return servers, rest, nil
}

// splitFlag recognizes "-x", "-xVALUE"-less short flags, "--long", and
// "--long=value" forms. Short flags here are never bundled and never
// take an attached value (rirc's -s/-p/-j/-n all take a separate arg),
// so only the "--long=value" attached form is split out.
func splitFlag(arg string) (name, val string, hasVal bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	if strings.HasPrefix(arg, "--") {
		if idx := strings.IndexByte(arg, '='); idx >= 0 {
			return arg[:idx], arg[idx+1:], true
		}
	}
	return arg, "", false
}

// runLoop drives the engine's tick loop at a fixed rate, forever. The
// absence of any terminal UI here is deliberate -- see cmd/rirc/render.go.
func runLoop(eng *rirc.Engine) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	render := newRenderer(os.Stdout)

	for range ticker.C {
		eng.Tick()
		render.Draw(eng)
	}
}
