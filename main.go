package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	worldPath := flag.String("world", "", "World file to play (default: built-in world)")
	dumpPath := flag.String("dump-world", "", "Write the world to this file and exit")
	headless := flag.Bool("headless", false, "Read plain lines from stdin (no raw terminal input)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default: warn, info for servers)")
	logDev := flag.Bool("log-dev", false, "Human-readable development logs")
	mcpHTTP := flag.Bool("mcp-http", false, "Run MCP Streamable HTTP server")
	mcpAddr := flag.String("mcp-addr", "127.0.0.1:8765", "MCP listen address")
	mcpPath := flag.String("mcp-path", "/mcp", "MCP endpoint path")
	mcpToken := flag.String("mcp-token", "", "Bearer token for MCP requests (optional)")
	mcpJSON := flag.Bool("mcp-json-response", false, "Force JSON responses instead of SSE")
	mcpStateless := flag.Bool("mcp-stateless", false, "Run MCP server in stateless mode (one shared game)")
	sshMode := flag.Bool("ssh", false, "Run SSH server, one game per connection")
	sshAddr := flag.String("ssh-addr", ":2222", "SSH listen address")
	sshKey := flag.String("ssh-key", "ssh_host_key", "Path to the PEM host key (generated if absent)")
	var policy policyFlag
	flag.Var(&policy, "tag-policy", "How shared tags resolve: last, first or reject (default: from the world file)")
	var origins stringSlice
	flag.Var(&origins, "mcp-origin", "Allowed Origin for MCP requests (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cdevrpgadv [options]\n\n")
		fmt.Fprintf(os.Stderr, "Walk around with 'look around' and 'go <place>'; 'quit' leaves.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	server := *mcpHTTP || *sshMode
	level := *logLevel
	if level == "" {
		level = "warn"
		if server {
			level = "info"
		}
	}
	log, err := newLogger(level, *logDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	world, err := loadWorld(*worldPath, policy.options()...)
	if err != nil {
		log.Error("cannot load world", zap.String("path", *worldPath), zap.Error(err))
		return 1
	}
	log.Info("world loaded",
		zap.String("path", *worldPath),
		zap.Int("things", world.Len()),
		zap.Stringer("tag_policy", world.Policy()))

	switch {
	case *dumpPath != "":
		if err := saveWorld(world, *dumpPath); err != nil {
			log.Error("cannot write world", zap.Error(err))
			return 1
		}
		return 0

	case *mcpHTTP:
		if len(origins) == 0 {
			origins = append(origins, "http://localhost", "http://127.0.0.1")
		}
		err := RunMCPHTTP(NewMCPServer(world, log, *mcpStateless), mcpOptions{
			addr:         *mcpAddr,
			path:         *mcpPath,
			origins:      origins,
			token:        *mcpToken,
			jsonResponse: *mcpJSON,
			stateless:    *mcpStateless,
		})
		log.Error("mcp server stopped", zap.Error(err))
		return 1

	case *sshMode:
		err := runSSH(*sshAddr, *sshKey, world, log)
		log.Error("ssh server stopped", zap.Error(err))
		return 1
	}

	in, out, restore := openConsole(*headless)
	defer restore()
	s := NewGame(world, out, log)
	if err := runSession(s, in); err != nil {
		log.Error("reading commands", zap.Error(err))
		return 1
	}
	return 0
}
