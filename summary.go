package main

type GameSummary struct {
	Location    string   `json:"location" jsonschema:"Tag of the player's location"`
	Description string   `json:"description" jsonschema:"Description of the player's location"`
	Contents    []string `json:"contents" jsonschema:"Descriptions of the things at the player's location"`
	Inventory   []string `json:"inventory" jsonschema:"Descriptions of the things the player carries"`
	Turns       int      `json:"turns" jsonschema:"Number of commands processed"`
	IsPlaying   bool     `json:"is_playing" jsonschema:"Whether the game is still active"`
}

func SummarizeState(s *GameState) GameSummary {
	w := s.World
	loc := w.PlayerLocation()
	summary := GameSummary{
		Location:    w.Tag(loc),
		Description: w.Description(loc),
		Contents:    []string{},
		Inventory:   []string{},
		Turns:       s.Turns,
		IsPlaying:   s.IsPlaying,
	}
	for id := range w.Contents(loc) {
		summary.Contents = append(summary.Contents, w.Description(id))
	}
	for id := range w.Contents(w.Player()) {
		summary.Inventory = append(summary.Inventory, w.Description(id))
	}
	return summary
}
