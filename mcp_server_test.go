package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMCPServer(t *testing.T) (*MCPServer, *World) {
	t.Helper()
	w, err := loadWorld("")
	require.NoError(t, err)
	return NewMCPServer(w, nil, false), w
}

func TestHandleCommand(t *testing.T) {
	srv, template := newTestMCPServer(t)
	ctx := context.Background()

	_, out, err := srv.HandleCommand(ctx, nil, CommandInput{Command: "go cave"})
	require.NoError(t, err)
	assert.Contains(t, out.Output, "alright.")
	assert.Equal(t, "cave", out.State.Location)
	assert.Equal(t, "a little cave", out.State.Description)
	assert.Equal(t, []string{"a silver coin", "a gold coin", "a burly guard"}, out.State.Contents)
	assert.Empty(t, out.State.Inventory)
	assert.Equal(t, 1, out.State.Turns)
	assert.True(t, out.State.IsPlaying)

	_, out, err = srv.HandleCommand(ctx, nil, CommandInput{Command: "go cave"})
	require.NoError(t, err)
	assert.Equal(t, "useless, this is where you are now.\n", out.Output)

	assert.Equal(t, ThingID(0), template.PlayerLocation(), "template world untouched")
}

func TestHandleCommandEmptyDescribes(t *testing.T) {
	srv, _ := newTestMCPServer(t)
	_, out, err := srv.HandleCommand(context.Background(), nil, CommandInput{})
	require.NoError(t, err)
	assert.Equal(t, "You be at an open field\n", out.Output)
	assert.Zero(t, out.State.Turns)
}

func TestHandleCommandReset(t *testing.T) {
	srv, _ := newTestMCPServer(t)
	ctx := context.Background()

	_, _, err := srv.HandleCommand(ctx, nil, CommandInput{Command: "go cave"})
	require.NoError(t, err)

	_, out, err := srv.HandleCommand(ctx, nil, CommandInput{Reset: true})
	require.NoError(t, err)
	assert.Equal(t, "You be at an open field\n", out.Output)
	assert.Equal(t, "field", out.State.Location)
	assert.Zero(t, out.State.Turns)

	_, out, err = srv.HandleCommand(ctx, nil, CommandInput{Reset: true, Command: "go cave"})
	require.NoError(t, err)
	assert.Equal(t, "cave", out.State.Location)
	assert.Equal(t, 1, out.State.Turns)
}

func TestHandleCommandAfterQuit(t *testing.T) {
	srv, _ := newTestMCPServer(t)
	ctx := context.Background()

	_, out, err := srv.HandleCommand(ctx, nil, CommandInput{Command: "quit"})
	require.NoError(t, err)
	assert.False(t, out.State.IsPlaying)

	_, out, err = srv.HandleCommand(ctx, nil, CommandInput{Command: "go cave"})
	require.NoError(t, err)
	assert.Contains(t, out.Output, "game is over")
	assert.Equal(t, "field", out.State.Location)
}

func TestMCPSessionsAreIsolated(t *testing.T) {
	srv, _ := newTestMCPServer(t)

	a := srv.session("a", false, nil)
	out, summary := ExecuteCommand(a.game, &a.buf, "go cave")
	a.mu.Unlock()
	assert.Contains(t, out, "alright.")
	assert.Equal(t, "cave", summary.Location)

	b := srv.session("b", false, nil)
	_, summary = ExecuteCommand(b.game, &b.buf, "look around")
	b.mu.Unlock()
	assert.Equal(t, "field", summary.Location)

	a = srv.session("a", false, nil)
	_, summary = ExecuteCommand(a.game, &a.buf, "")
	a.mu.Unlock()
	assert.Equal(t, "cave", summary.Location)
}

func TestGuard(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := guard(ok, []string{"http://localhost"}, "sesame")

	cases := []struct {
		name   string
		origin string
		auth   string
		want   int
	}{
		{"allowed origin with token", "http://localhost", "Bearer sesame", http.StatusNoContent},
		{"no origin with token", "", "Bearer sesame", http.StatusNoContent},
		{"foreign origin", "http://evil.example", "Bearer sesame", http.StatusForbidden},
		{"missing token", "http://localhost", "", http.StatusUnauthorized},
		{"wrong token", "", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestGuardWithoutToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	guard(ok, nil, "").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// connectMCP serves srv over HTTP and returns a connected client session.
func connectMCP(t *testing.T, srv *MCPServer, opts mcpOptions) *mcp.ClientSession {
	t.Helper()
	handler, path := newMCPHandler(srv, opts)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: ts.URL + path}, nil)
	require.NoError(t, err)
	return cs
}

func callCommand(t *testing.T, cs *mcp.ClientSession, command string) CommandOutput {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "command",
		Arguments: CommandInput{Command: command},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out CommandOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func sessionCount(srv *MCPServer) int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return len(srv.sessions)
}

func TestStatelessRequestsShareOneGame(t *testing.T) {
	srv, _ := newTestMCPServer(t)
	srv.stateless = true
	cs := connectMCP(t, srv, mcpOptions{path: "mcp", stateless: true, jsonResponse: true})
	defer cs.Close()

	out := callCommand(t, cs, "go cave")
	assert.Equal(t, "cave", out.State.Location)

	out = callCommand(t, cs, "look around")
	assert.Equal(t, "cave", out.State.Location)
	assert.Contains(t, out.Output, "a little cave")
	assert.Equal(t, 2, out.State.Turns)

	assert.Equal(t, 1, sessionCount(srv))
}

func TestClosedSessionsAreDropped(t *testing.T) {
	srv, _ := newTestMCPServer(t)
	cs := connectMCP(t, srv, mcpOptions{path: "/mcp"})

	out := callCommand(t, cs, "go cave")
	assert.Equal(t, "cave", out.State.Location)
	out = callCommand(t, cs, "inventory")
	assert.Equal(t, "cave", out.State.Location, "one session keeps its game")
	assert.Equal(t, 1, sessionCount(srv))

	require.NoError(t, cs.Close())
	assert.Eventually(t, func() bool { return sessionCount(srv) == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestSessionKey(t *testing.T) {
	srv, _ := newTestMCPServer(t)
	id, done := srv.sessionKey(nil)
	assert.Equal(t, DefaultSession, id)
	assert.Nil(t, done)

	srv.stateless = true
	id, done = srv.sessionKey(&mcp.CallToolRequest{Session: &mcp.ServerSession{}})
	assert.Equal(t, DefaultSession, id)
	assert.Nil(t, done)
}
