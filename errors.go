package main

import (
	"errors"
	"fmt"
)

// Player-facing failures. The text is printed as is.
var (
	ErrNotFound    = errors.New("there is mystery in your requests.")
	ErrAlreadyHere = errors.New("useless, this is where you are now.")
	ErrConfused    = errors.New("You are lost and confused.")
	ErrUnknownVerb = errors.New("unknown verb")
)

// World construction failures.
var (
	ErrDuplicateTag  = errors.New("duplicate tag")
	ErrBadLocation   = errors.New("location refers to no thing")
	ErrLocationCycle = errors.New("location relation has a cycle")
	ErrBadPlayer     = errors.New("player is not a thing of the world")
	ErrTooManyThings = errors.New("too many things")
)

// VerbError reports a verb the interpreter does not know.
type VerbError struct {
	Verb string
}

func (e *VerbError) Error() string {
	return fmt.Sprintf("I can't really '%s' right now", e.Verb)
}

func (e *VerbError) Unwrap() error { return ErrUnknownVerb }
