package testutil

import "github.com/questforge/questforge/core"

// TavernScene returns a small scene with one hostile NPC, suitable for
// combat-oriented tests.
func TavernScene() core.Scene {
	return core.Scene{
		Location:    "The Rusty Flagon",
		TimeOfDay:   "night",
		Weather:     "rain",
		Description: "A dim taproom that smells of spilled ale.",
		NPCs: []core.NPC{
			{Name: "Goblin Warrior", Role: "hostile", Status: []string{"alert"}},
			{Name: "Old Bartender", Role: "neutral"},
		},
	}
}
