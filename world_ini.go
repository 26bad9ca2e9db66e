package main

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

//go:embed data/world.ini
var defaultWorldINI []byte

// loadWorld reads a world file, or the built-in world when path is empty.
// Options override what the file sets.
func loadWorld(path string, opts ...WorldOption) (*World, error) {
	var source any = defaultWorldINI
	if path != "" {
		source = path
	}
	cfg, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("load world %q: %w", path, err)
	}
	w, err := parseWorld(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("load world %q: %w", path, err)
	}
	return w, nil
}

func parseWorld(cfg *ini.File, opts ...WorldOption) (*World, error) {
	numbered := make(map[int]*ini.Section)
	for _, sec := range cfg.Sections() {
		suffix, ok := strings.CutPrefix(sec.Name(), "Thing")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("[%s]: want Thing1 to Thing%d", sec.Name(), MaxThings)
		}
		if n > MaxThings {
			return nil, fmt.Errorf("%w: [%s] is past Thing%d", ErrTooManyThings, sec.Name(), MaxThings)
		}
		if prev, dup := numbered[n]; dup {
			return nil, fmt.Errorf("[%s] and [%s] are the same thing", prev.Name(), sec.Name())
		}
		numbered[n] = sec
	}

	// section number -> arena index; gaps in the numbering are skipped
	index := make(map[int]ThingID, len(numbered))
	sections := make([]*ini.Section, 0, len(numbered))
	for _, n := range slices.Sorted(maps.Keys(numbered)) {
		index[n] = ThingID(len(sections))
		sections = append(sections, numbered[n])
	}

	ref := func(n int) (ThingID, bool) {
		if n == 0 {
			return NoThing, true
		}
		id, ok := index[n]
		return id, ok
	}

	things := make([]Thing, 0, len(sections))
	for _, sec := range sections {
		n, err := intKey(sec, "Location")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadLocation, err)
		}
		loc, ok := ref(n)
		if !ok {
			return nil, fmt.Errorf("%w: [%s] Location = %d", ErrBadLocation, sec.Name(), n)
		}
		things = append(things, Thing{
			Tag:         sec.Key("Tag").String(),
			Description: sec.Key("Description").String(),
			Location:    loc,
		})
	}

	worldSec := cfg.Section("World")
	n, err := intKey(worldSec, "Player")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPlayer, err)
	}
	player, ok := ref(n)
	if !ok || player == NoThing {
		return nil, fmt.Errorf("%w: [World] Player = %d", ErrBadPlayer, n)
	}

	var all []WorldOption
	if v := worldSec.Key("TagPolicy").String(); v != "" {
		p, ok := parseTagPolicy(v)
		if !ok {
			return nil, fmt.Errorf("[World] TagPolicy = %q: want last, first or reject", v)
		}
		all = append(all, WithTagPolicy(p))
	}
	all = append(all, opts...)
	return NewWorld(things, player, all...)
}

// intKey reads a section number. A missing key is 0, meaning none.
func intKey(sec *ini.Section, name string) (int, error) {
	if !sec.HasKey(name) {
		return 0, nil
	}
	n, err := sec.Key(name).Int()
	if err != nil {
		return 0, fmt.Errorf("[%s] %s = %q: not a number", sec.Name(), name, sec.Key(name).String())
	}
	return n, nil
}
