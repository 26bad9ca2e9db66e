package main

import (
	"errors"
	"fmt"
	"iter"

	"github.com/dominikbraun/graph"
	"github.com/zyedidia/generic/mapset"
)

// World owns a fixed arena of things. After NewWorld returns, the only
// mutation is MovePlayer.
type World struct {
	things []Thing
	player ThingID
	policy TagPolicy
}

type WorldOption func(*World)

func WithTagPolicy(p TagPolicy) WorldOption {
	return func(w *World) { w.policy = p }
}

// NewWorld copies things and checks that every location points at a thing
// of the arena, that nothing ends up inside itself and that the player is
// somewhere.
func NewWorld(things []Thing, player ThingID, opts ...WorldOption) (*World, error) {
	if len(things) > MaxThings {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyThings, len(things), MaxThings)
	}
	w := &World{
		things: append([]Thing(nil), things...),
		player: player,
	}
	for _, opt := range opts {
		opt(w)
	}
	if !w.valid(player) {
		return nil, fmt.Errorf("%w: %d", ErrBadPlayer, player)
	}
	if err := w.checkRelation(); err != nil {
		return nil, err
	}
	if w.things[player].Location == NoThing {
		return nil, fmt.Errorf("%w: player %d (%q) is nowhere", ErrBadPlayer, player, w.things[player].Tag)
	}
	if w.policy == RejectDuplicates {
		if err := w.checkTags(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) checkRelation() error {
	g := graph.New(func(id ThingID) ThingID { return id }, graph.Directed(), graph.PreventCycles())
	for i := range w.things {
		if err := g.AddVertex(ThingID(i)); err != nil {
			return fmt.Errorf("add thing %d: %w", i, err)
		}
	}
	for i, t := range w.things {
		id := ThingID(i)
		if t.Location == NoThing {
			continue
		}
		if !w.valid(t.Location) {
			return fmt.Errorf("%w: thing %d (%q) is at %d", ErrBadLocation, i, t.Tag, t.Location)
		}
		if t.Location == id {
			return fmt.Errorf("%w: thing %d (%q) is inside itself", ErrLocationCycle, i, t.Tag)
		}
		if err := g.AddEdge(id, t.Location); err != nil {
			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				return fmt.Errorf("%w: thing %d (%q) at %d", ErrLocationCycle, i, t.Tag, t.Location)
			}
			return fmt.Errorf("link thing %d: %w", i, err)
		}
	}
	return nil
}

func (w *World) checkTags() error {
	seen := mapset.New[string]()
	for i, t := range w.things {
		if t.Tag == "" {
			continue
		}
		if seen.Has(t.Tag) {
			return fmt.Errorf("%w: %q (thing %d)", ErrDuplicateTag, t.Tag, i)
		}
		seen.Put(t.Tag)
	}
	return nil
}

func (w *World) valid(id ThingID) bool {
	return id >= 0 && int(id) < len(w.things)
}

func (w *World) Len() int { return len(w.things) }

func (w *World) Policy() TagPolicy { return w.policy }

func (w *World) Thing(id ThingID) (Thing, bool) {
	if !w.valid(id) {
		return Thing{}, false
	}
	return w.things[id], true
}

// Things yields the arena in registry order.
func (w *World) Things() iter.Seq2[ThingID, Thing] {
	return func(yield func(ThingID, Thing) bool) {
		for i, t := range w.things {
			if !yield(ThingID(i), t) {
				return
			}
		}
	}
}

func (w *World) Player() ThingID { return w.player }

func (w *World) PlayerLocation() ThingID { return w.things[w.player].Location }

func (w *World) Description(id ThingID) string {
	if !w.valid(id) {
		return ""
	}
	return w.things[id].Description
}

func (w *World) Tag(id ThingID) string {
	if !w.valid(id) {
		return ""
	}
	return w.things[id].Tag
}

// Resolve returns the thing whose tag is exactly tag, or NoThing.
// Shared tags are settled by the world's TagPolicy.
func (w *World) Resolve(tag string) ThingID {
	if tag == "" {
		return NoThing
	}
	found := NoThing
	for i, t := range w.things {
		if t.Tag != tag {
			continue
		}
		found = ThingID(i)
		if w.policy == FirstMatch {
			break
		}
	}
	return found
}

// Contents yields, in registry order, the things located at loc. The player
// and loc itself are never yielded.
func (w *World) Contents(loc ThingID) iter.Seq[ThingID] {
	return func(yield func(ThingID) bool) {
		if !w.valid(loc) {
			return
		}
		for i, t := range w.things {
			id := ThingID(i)
			if id == w.player || id == loc || t.Location != loc {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// MovePlayer sets the player's location to `to`. The player itself and
// anything the player carries are not places to go to.
func (w *World) MovePlayer(to ThingID) error {
	if !w.valid(to) || to == w.player {
		return ErrNotFound
	}
	if to == w.PlayerLocation() {
		return ErrAlreadyHere
	}
	for loc := w.things[to].Location; loc != NoThing; loc = w.things[loc].Location {
		if loc == w.player {
			return ErrNotFound
		}
	}
	w.things[w.player].Location = to
	return nil
}

// Clone returns a world with its own arena, for a new session.
func (w *World) Clone() *World {
	return &World{
		things: append([]Thing(nil), w.things...),
		player: w.player,
		policy: w.policy,
	}
}
