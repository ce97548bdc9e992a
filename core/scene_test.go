package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() Scene {
	return Scene{
		Location:     "Old Mill",
		TimeOfDay:    "dusk",
		Weather:      "fog",
		Description:  "Rotting beams creak overhead.",
		PlayerStatus: []string{"wet"},
		NPCs: []NPC{
			{Name: "Miller", Role: "neutral", Status: []string{"nervous"}},
			{Name: "Bandit", Role: "hostile"},
		},
	}
}

func TestScene_CloneIsDeep(t *testing.T) {
	original := testScene()
	clone := original.Clone()

	clone.PlayerStatus[0] = "dry"
	clone.NPCs[0].Status[0] = "calm"
	clone.NPCs[1].Name = "Renamed"

	assert.Equal(t, []string{"wet"}, original.PlayerStatus)
	assert.Equal(t, []string{"nervous"}, original.NPCs[0].Status)
	assert.Equal(t, "Bandit", original.NPCs[1].Name)
}

func TestScene_NPCNamed(t *testing.T) {
	scene := testScene()

	npc, ok := scene.NPCNamed("Miller")
	require.True(t, ok)
	assert.Equal(t, "neutral", npc.Role)

	_, ok = scene.NPCNamed("Ghost")
	assert.False(t, ok)
}

func TestScene_ApplyStatusPlayer(t *testing.T) {
	scene := testScene()

	scene.ApplyStatus(PlayerTarget, []string{"empowered"}, []string{"wet"})
	assert.Equal(t, []string{"empowered"}, scene.PlayerStatus)
}

func TestScene_ApplyStatusNPC(t *testing.T) {
	scene := testScene()

	scene.ApplyStatus("Miller", []string{"terrified"}, []string{"nervous"})
	npc, _ := scene.NPCNamed("Miller")
	assert.Equal(t, []string{"terrified"}, npc.Status)

	// Player status untouched by an NPC-targeted change.
	assert.Equal(t, []string{"wet"}, scene.PlayerStatus)
}

func TestScene_ApplyStatusDeduplicates(t *testing.T) {
	scene := testScene()

	scene.ApplyStatus(PlayerTarget, []string{"wet", "cold", "cold"}, nil)
	assert.Equal(t, []string{"wet", "cold"}, scene.PlayerStatus)
}

func TestScene_ApplyStatusRemoveWinsOverAdd(t *testing.T) {
	scene := testScene()

	// A tag both added and removed in the same change ends up absent.
	scene.ApplyStatus(PlayerTarget, []string{"dazed"}, []string{"dazed"})
	assert.Equal(t, []string{"wet"}, scene.PlayerStatus)
}

func TestScene_ApplyStatusUnknownTargetIgnored(t *testing.T) {
	scene := testScene()

	scene.ApplyStatus("Nobody", []string{"cursed"}, nil)
	assert.Equal(t, testScene(), scene)
}
