package main

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// saveWorld writes w in the format loadWorld reads. Things keep their
// registry order, so numbering is the arena index plus one.
func saveWorld(w *World, path string) error {
	cfg := ini.Empty()

	sec, err := cfg.NewSection("World")
	if err != nil {
		return err
	}
	sec.Key("Player").SetValue(fmt.Sprintf("%d", w.Player()+1))
	sec.Key("TagPolicy").SetValue(w.Policy().String())

	for id, t := range w.Things() {
		thingSec, err := cfg.NewSection(fmt.Sprintf("Thing%d", id+1))
		if err != nil {
			return err
		}
		thingSec.Key("Tag").SetValue(t.Tag)
		thingSec.Key("Description").SetValue(t.Description)
		thingSec.Key("Location").SetValue(fmt.Sprintf("%d", t.Location+1))
	}

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("save world %q: %w", path, err)
	}
	return nil
}
