package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type CommandInput struct {
	Command string `json:"command" jsonschema:"Game command to execute, for example 'go cave'"`
	Reset   bool   `json:"reset,omitempty" jsonschema:"Start the session over before executing the command"`
}

type CommandOutput struct {
	Output string      `json:"output" jsonschema:"Raw game output"`
	State  GameSummary `json:"state" jsonschema:"Summary of the current game state"`
}

// mcpSession is one client's game. mu serialises its commands.
type mcpSession struct {
	mu   sync.Mutex
	game *GameState
	buf  bytes.Buffer
}

// MCPServer keeps a separate game per MCP session, each started from a
// clone of the template world. A stateless server has no sessions to tell
// apart, so every request plays the one default game.
type MCPServer struct {
	mu        sync.Mutex
	sessions  map[string]*mcpSession
	template  *World
	log       *zap.Logger
	stateless bool
}

func NewMCPServer(template *World, log *zap.Logger, stateless bool) *MCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MCPServer{
		sessions:  make(map[string]*mcpSession),
		template:  template,
		log:       log,
		stateless: stateless,
	}
}

// session returns the game for id, starting one on first use or on reset.
// When done is set, the game is dropped once done returns. The returned
// session is locked.
func (s *MCPServer) session(id string, reset bool, done func() error) *mcpSession {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &mcpSession{}
		s.sessions[id] = sess
		if done != nil {
			go func() {
				_ = done()
				s.forget(id, sess)
			}()
		}
	}
	s.mu.Unlock()

	sess.mu.Lock()
	if sess.game == nil || reset {
		sess.buf.Reset()
		sess.game = NewGame(s.template.Clone(), &sess.buf, s.log.With(zap.String("session", id)))
		s.log.Info("mcp session started", zap.String("session", id), zap.Bool("reset", reset))
	}
	return sess
}

func (s *MCPServer) forget(id string, sess *mcpSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[id] == sess {
		delete(s.sessions, id)
		s.log.Info("mcp session closed", zap.String("session", id))
	}
}

// ExecuteCommand runs cmd and returns what the game printed since the last
// call. An empty command describes the current location, unless there is
// already unread text (the opening description of a new game).
func ExecuteCommand(s *GameState, buf *bytes.Buffer, cmd string) (string, GameSummary) {
	trimmed := strings.TrimSpace(cmd)
	switch {
	case trimmed == "":
		if buf.Len() == 0 {
			describeLocation(s)
		}
	case s.IsPlaying:
		processCommand(s, trimmed)
	default:
		outPrintln(s, "The game is over. Send reset to play again.")
	}
	out := buf.String()
	buf.Reset()
	return out, SummarizeState(s)
}

func (s *MCPServer) HandleCommand(_ context.Context, req *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, CommandOutput, error) {
	id, done := s.sessionKey(req)
	sess := s.session(id, input.Reset, done)
	defer sess.mu.Unlock()

	output, summary := ExecuteCommand(sess.game, &sess.buf, input.Command)
	return nil, CommandOutput{Output: output, State: summary}, nil
}

// sessionKey names the game a request plays and, for a live MCP session,
// returns the wait that ends it.
func (s *MCPServer) sessionKey(req *mcp.CallToolRequest) (string, func() error) {
	if s.stateless || req == nil || req.Session == nil {
		return DefaultSession, nil
	}
	if id := req.Session.ID(); id != "" {
		return id, req.Session.Wait
	}
	return DefaultSession, nil
}

type mcpOptions struct {
	addr         string
	path         string
	origins      []string
	token        string
	jsonResponse bool
	stateless    bool
}

func RunMCPHTTP(server *MCPServer, opts mcpOptions) error {
	handler, path := newMCPHandler(server, opts)
	server.log.Info("mcp server listening", zap.String("addr", opts.addr), zap.String("path", path))
	serverHTTP := &http.Server{
		Addr:    opts.addr,
		Handler: handler,
	}
	return serverHTTP.ListenAndServe()
}

// newMCPHandler mounts the command tool at opts.path behind guard and
// returns the handler and the normalised path.
func newMCPHandler(server *MCPServer, opts mcpOptions) (http.Handler, string) {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "cdevrpgadv",
		Version: "v1.0.0",
	}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "command",
		Description: "Send a command (look around, go <place>, inventory, help, quit) to the adventure and return output plus state summary.",
	}, server.HandleCommand)

	path := opts.path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return mcpServer
	}, &mcp.StreamableHTTPOptions{
		Stateless:    opts.stateless,
		JSONResponse: opts.jsonResponse,
		Logger:       slogFor(server.log),
	})

	mux := http.NewServeMux()
	mux.Handle(path, guard(handler, opts.origins, opts.token))
	return mux, path
}

// guard rejects requests from origins not in origins and, when token is
// set, requests without it as a bearer token. Requests with no Origin header
// come from non-browser clients and pass the origin check.
func guard(next http.Handler, origins []string, token string) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && !allowed[origin] {
			http.Error(w, "Forbidden origin", http.StatusForbidden)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
