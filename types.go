package main

const (
	MaxThings      = 64
	DefaultPrompt  = "> "
	DefaultSession = "default"
)

// ThingID indexes a thing in its World.
type ThingID int

// NoThing is both "no location" and "no match".
const NoThing ThingID = -1

// Thing is a location, an item or the player. Nothing but the way other
// things refer to it tells them apart.
type Thing struct {
	Description string
	Tag         string
	Location    ThingID
}

// TagPolicy decides which thing a tag resolves to when several share it.
type TagPolicy int

const (
	LastMatch TagPolicy = iota
	FirstMatch
	RejectDuplicates
)

func (p TagPolicy) String() string {
	switch p {
	case LastMatch:
		return "last"
	case FirstMatch:
		return "first"
	case RejectDuplicates:
		return "reject"
	}
	return "unknown"
}

func parseTagPolicy(s string) (TagPolicy, bool) {
	switch s {
	case "last", "":
		return LastMatch, true
	case "first":
		return FirstMatch, true
	case "reject":
		return RejectDuplicates, true
	}
	return LastMatch, false
}
