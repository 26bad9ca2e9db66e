package main

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const maxWidth = 79

// wrapWriteLn prints text folded at spaces so no line is wider than
// maxWidth terminal cells. A word wider than that gets a line of its own.
func wrapWriteLn(s *GameState, text string) {
	var line strings.Builder
	width := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if width > 0 && width+1+w > maxWidth {
			outPrintln(s, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteByte(' ')
			width++
		}
		line.WriteString(word)
		width += w
	}
	outPrintln(s, line.String())
}

// listThings prints header and then one description per thing, or nothing
// at all when things is empty. It returns how many it printed.
func listThings(s *GameState, header string, things iter.Seq[ThingID]) int {
	count := 0
	for id := range things {
		if count == 0 {
			outPrintln(s, header)
		}
		count++
		wrapWriteLn(s, s.World.Description(id))
	}
	return count
}

func describeLocation(s *GameState) {
	loc := s.World.PlayerLocation()
	wrapWriteLn(s, "You be at "+s.World.Description(loc))
	listThings(s, "Your eyes register:", s.World.Contents(loc))
}

// lineReader is satisfied by *term.Terminal.
type lineReader interface {
	ReadLine() (string, error)
}

// plainReader reads lines from a pipe or file, printing the prompt first.
type plainReader struct {
	r      *bufio.Reader
	out    io.Writer
	prompt string
}

func newPlainReader(in io.Reader, out io.Writer, prompt string) *plainReader {
	return &plainReader{r: bufio.NewReader(in), out: out, prompt: prompt}
}

func (p *plainReader) ReadLine() (string, error) {
	if p.out != nil && p.prompt != "" {
		_, _ = io.WriteString(p.out, p.prompt)
	}
	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

type readWriter struct {
	io.Reader
	io.Writer
}

// openConsole picks how to read the local player's commands. On a terminal,
// unless headless is set, stdin goes raw and x/term does line editing and
// history; game text must then go through the returned writer. The returned
// func puts the terminal back.
func openConsole(headless bool) (lineReader, io.Writer, func()) {
	noop := func() {}
	fd := int(os.Stdin.Fd())
	if headless || !term.IsTerminal(fd) {
		return newPlainReader(os.Stdin, os.Stdout, DefaultPrompt), os.Stdout, noop
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return newPlainReader(os.Stdin, os.Stdout, DefaultPrompt), os.Stdout, noop
	}
	t := term.NewTerminal(readWriter{os.Stdin, os.Stdout}, DefaultPrompt)
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	return t, t, func() { _ = term.Restore(fd, oldState) }
}
