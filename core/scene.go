package core

// NPC describes a non-player character present in the current scene.
type NPC struct {
	Name   string   `json:"name"`
	Role   string   `json:"role"` // "hostile", "friendly", "neutral", ...
	Status []string `json:"status,omitempty"`
}

// Scene is a snapshot of the game world a single turn operates on. Scenes are
// value types: phases never mutate a scene in place, they derive an updated
// copy via Clone.
type Scene struct {
	Location     string   `json:"location"`
	TimeOfDay    string   `json:"time_of_day"`
	Weather      string   `json:"weather"`
	Description  string   `json:"description"`
	PlayerStatus []string `json:"player_status,omitempty"`
	NPCs         []NPC    `json:"npcs,omitempty"`
}

// Clone returns a deep copy of the scene. Status slices and the NPC list are
// copied so mutations on the clone never leak into the original snapshot.
func (s Scene) Clone() Scene {
	out := s
	out.PlayerStatus = append([]string(nil), s.PlayerStatus...)
	if s.NPCs != nil {
		out.NPCs = make([]NPC, len(s.NPCs))
		for i, npc := range s.NPCs {
			out.NPCs[i] = npc
			out.NPCs[i].Status = append([]string(nil), npc.Status...)
		}
	}
	return out
}

// NPCNamed returns the NPC with the given name and true, or a zero NPC and
// false when the scene has no such NPC.
func (s Scene) NPCNamed(name string) (NPC, bool) {
	for _, npc := range s.NPCs {
		if npc.Name == name {
			return npc, true
		}
	}
	return NPC{}, false
}

// ApplyStatus folds a status change for a single target into the scene:
// removals are applied as a set difference first, then additions are appended
// union-style (no duplicates). The target "player" addresses the player
// status list; any other target addresses the NPC with that name. Unknown
// targets are ignored.
func (s *Scene) ApplyStatus(target string, add, remove []string) {
	if target == PlayerTarget {
		s.PlayerStatus = mergeStatus(s.PlayerStatus, add, remove)
		return
	}
	for i := range s.NPCs {
		if s.NPCs[i].Name == target {
			s.NPCs[i].Status = mergeStatus(s.NPCs[i].Status, add, remove)
			return
		}
	}
}

// PlayerTarget is the reserved status-change target addressing the player
// rather than a named NPC.
const PlayerTarget = "player"

func mergeStatus(current, add, remove []string) []string {
	removed := make(map[string]bool, len(remove))
	for _, r := range remove {
		removed[r] = true
	}
	out := make([]string, 0, len(current)+len(add))
	seen := make(map[string]bool, len(current)+len(add))
	for _, s := range current {
		if removed[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, s := range add {
		if removed[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
