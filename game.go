package main

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

// NewGame starts a session on w and describes where the player stands.
func NewGame(w *World, out io.Writer, log *zap.Logger) *GameState {
	var s GameState
	initState(&s, w, out, log)
	describeLocation(&s)
	return &s
}

// runSession feeds lines to the interpreter until the player quits or the
// input ends.
func runSession(s *GameState, in lineReader) error {
	for s.IsPlaying {
		line, err := in.ReadLine()
		if err != nil {
			s.IsPlaying = false
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		processCommand(s, line)
	}
	return nil
}
