package phase

import (
	"fmt"
	"strings"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/internal/util"
)

const analysisInstructions = `You are the rules engine of a tabletop RPG game master.
Classify the player's action and respond with a single JSON object, no prose:
{"action_type": "combat|exploration|social|puzzle|other",
 "targets": ["entity names the action is aimed at"],
 "requires_check": true|false,
 "difficulty": 0,
 "intent": "what the player is trying to achieve",
 "consequences": "likely consequences of the action"}
Set difficulty only when requires_check is true (5 trivial .. 25 nearly impossible).`

const analysisPromptTemplate = `Player action: {{.Action}}

Current scene:
{{.Scene}}

Classify this action.`

const narrativeInstructions = `You are the narrator of a tabletop RPG game master.
Write the next beat of the story and respond with a single JSON object, no prose:
{"narrative": "2-4 sentences of second-person narration",
 "mood": "tense|calm|exciting|mysterious|dangerous",
 "suggested_actions": ["3 to 4 short follow-up actions the player could take"]}`

const narrativePromptTemplate = `Player action: {{.Action}}
Action type: {{.ActionType}}
Mechanical outcome: {{.Outcome}}

Current scene:
{{.Scene}}

{{if .Memories}}Relevant campaign memory:
{{.Memories}}

{{end}}{{if .StatusChanges}}Status changes this turn:
{{.StatusChanges}}

{{end}}Narrate what happens.`

func renderScene(scene core.Scene) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Location: %s (%s, %s)\n", scene.Location, scene.TimeOfDay, scene.Weather)
	if scene.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", scene.Description)
	}
	if len(scene.PlayerStatus) > 0 {
		fmt.Fprintf(&sb, "Player status: %s\n", strings.Join(scene.PlayerStatus, ", "))
	}
	for _, npc := range scene.NPCs {
		fmt.Fprintf(&sb, "NPC: %s (%s)", npc.Name, npc.Role)
		if len(npc.Status) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(npc.Status, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderMemories(memories []core.SimilarityResult) string {
	lines := make([]string, 0, len(memories))
	for _, m := range memories {
		lines = append(lines, "- "+m.Entry.Content)
	}
	return strings.Join(lines, "\n")
}

func renderCheck(check *core.CheckResult) string {
	if check == nil {
		return "no mechanical check was required"
	}
	switch {
	case check.CriticalSuccess:
		return fmt.Sprintf("critical success (rolled %d, total %d)", check.Rolls[0], check.FinalTotal)
	case check.CriticalFailure:
		return fmt.Sprintf("critical failure (rolled %d, total %d)", check.Rolls[0], check.FinalTotal)
	case check.Success != nil && *check.Success:
		return fmt.Sprintf("success (total %d)", check.FinalTotal)
	case check.Success != nil:
		return fmt.Sprintf("failure (total %d)", check.FinalTotal)
	default:
		return fmt.Sprintf("rolled %d", check.FinalTotal)
	}
}

func renderStatusChanges(changes []core.StatusChange) string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		var parts []string
		if len(c.Add) > 0 {
			parts = append(parts, "gained "+strings.Join(c.Add, ", "))
		}
		if len(c.Remove) > 0 {
			parts = append(parts, "lost "+strings.Join(c.Remove, ", "))
		}
		if len(parts) > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %s", c.Target, strings.Join(parts, "; ")))
		}
	}
	return strings.Join(lines, "\n")
}

func renderPrompt(tmpl string, state map[string]any) (string, error) {
	out, err := util.RenderTemplate(tmpl, state)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out, nil
}
