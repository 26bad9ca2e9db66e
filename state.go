package main

import (
	"io"

	"go.uber.org/zap"
)

// GameState is one player's session: a world of its own plus where its text
// goes. It is not safe for concurrent use.
type GameState struct {
	World *World
	Out   io.Writer
	Log   *zap.Logger

	IsPlaying bool
	Turns     int
}

func initState(s *GameState, w *World, out io.Writer, log *zap.Logger) {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	s.World = w
	s.Out = out
	s.Log = log
	s.IsPlaying = true
	s.Turns = 0
}
