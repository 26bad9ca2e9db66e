package main

import (
	"strings"

	"go.uber.org/zap"
)

type Verb int

const (
	VerbNone Verb = iota
	VerbLook
	VerbGo
	VerbInventory
	VerbHelp
	VerbQuit
	VerbUnknown
)

func (v Verb) String() string {
	switch v {
	case VerbNone:
		return "none"
	case VerbLook:
		return "look"
	case VerbGo:
		return "go"
	case VerbInventory:
		return "inventory"
	case VerbHelp:
		return "help"
	case VerbQuit:
		return "quit"
	case VerbUnknown:
		return "unknown"
	}
	return "invalid"
}

// Command is one decoded input line. Word is the verb as typed.
type Command struct {
	Verb Verb
	Word string
	Noun string
}

type verbEntry struct {
	word  string
	verb  Verb
	usage string
}

var verbs = []verbEntry{
	{"look", VerbLook, "look around     - see where you are"},
	{"l", VerbLook, ""},
	{"go", VerbGo, "go <place>      - walk somewhere"},
	{"inventory", VerbInventory, "inventory       - what you are carrying"},
	{"i", VerbInventory, ""},
	{"help", VerbHelp, "help            - this list"},
	{"?", VerbHelp, ""},
	{"quit", VerbQuit, "quit            - leave the game"},
	{"q", VerbQuit, ""},
}

// parseCommand takes the first word as the verb and the second as the noun.
// Anything after the second word is ignored.
func parseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Verb: VerbNone}
	}
	cmd := Command{Verb: VerbUnknown, Word: fields[0]}
	if len(fields) > 1 {
		cmd.Noun = fields[1]
	}
	word := strings.ToLower(cmd.Word)
	for _, entry := range verbs {
		if entry.word == word {
			cmd.Verb = entry.verb
			break
		}
	}
	return cmd
}

func processCommand(s *GameState, line string) {
	cmd := parseCommand(line)
	if cmd.Verb == VerbNone {
		return
	}
	s.Turns++

	err := execute(s, cmd)
	if err != nil {
		outPrintln(s, err.Error())
	}
	s.Log.Debug("command",
		zap.Stringer("verb", cmd.Verb),
		zap.String("noun", cmd.Noun),
		zap.Int("turn", s.Turns),
		zap.Error(err))
}

func execute(s *GameState, cmd Command) error {
	switch cmd.Verb {
	case VerbNone:
		return nil
	case VerbLook:
		return cmdLook(s, cmd.Noun)
	case VerbGo:
		return cmdGo(s, cmd.Noun)
	case VerbInventory:
		return cmdInventory(s)
	case VerbHelp:
		return cmdHelp(s)
	case VerbQuit:
		return cmdQuit(s)
	case VerbUnknown:
		return &VerbError{Verb: cmd.Word}
	}
	return &VerbError{Verb: cmd.Word}
}

func cmdLook(s *GameState, noun string) error {
	if noun != "around" {
		return ErrConfused
	}
	describeLocation(s)
	return nil
}

func cmdGo(s *GameState, noun string) error {
	to := s.World.Resolve(noun)
	if to == NoThing {
		return ErrNotFound
	}
	if err := s.World.MovePlayer(to); err != nil {
		return err
	}
	outPrintln(s, "alright.")
	describeLocation(s)
	return nil
}

func cmdInventory(s *GameState) error {
	if listThings(s, "You carry:", s.World.Contents(s.World.Player())) == 0 {
		outPrintln(s, "You are carrying nothing.")
	}
	return nil
}

func cmdHelp(s *GameState) error {
	outPrintln(s, "You can:")
	for _, entry := range verbs {
		if entry.usage != "" {
			outPrintf(s, "  %s\n", entry.usage)
		}
	}
	return nil
}

func cmdQuit(s *GameState) error {
	s.IsPlaying = false
	return nil
}
