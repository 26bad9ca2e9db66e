package main

import (
	"fmt"
	"io"
	"os"
)

// Write errors are dropped: a player who went away cannot be told.

func outWriter(s *GameState) io.Writer {
	if s != nil && s.Out != nil {
		return s.Out
	}
	return os.Stdout
}

func outPrintln(s *GameState, a ...any) {
	_, _ = fmt.Fprintln(outWriter(s), a...)
}

func outPrintf(s *GameState, format string, a ...any) {
	_, _ = fmt.Fprintf(outWriter(s), format, a...)
}
