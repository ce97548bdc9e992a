package tool

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"sync"

	"github.com/questforge/questforge/core"
)

// RollDiceName is the registered name of the dice tool.
const RollDiceName = "roll_dice"

// diceExprRe matches the expression grammar <count>d<sides>[+|-<modifier>].
// Count and sides may each be omitted (defaulting to 1 and 6).
var diceExprRe = regexp.MustCompile(`^\s*(\d*)[dD](\d*)\s*(?:([+-])\s*(\d+))?\s*$`)

// RollDiceInput is the argument shape of the roll_dice tool.
type RollDiceInput struct {
	DiceExpression string `json:"dice_expression" description:"Dice expression such as 1d20+3 or 2d6"`
	Difficulty     *int   `json:"difficulty,omitempty" description:"Target number the final total is checked against"`
	Advantage      bool   `json:"advantage,omitempty" description:"Roll a single d20 twice and keep the higher"`
	Disadvantage   bool   `json:"disadvantage,omitempty" description:"Roll a single d20 twice and keep the lower"`
}

// DiceTool rolls dice expressions. The generator is guarded by a mutex so a
// single tool instance is safe for concurrent turns; inject a seeded source
// for deterministic tests.
type DiceTool struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// DiceOptions configure a DiceTool.
type DiceOptions struct {
	// Source overrides the default random source. Nil uses a time-seeded one.
	Source rand.Source
}

// NewDiceTool creates a dice tool.
func NewDiceTool(optFns ...func(o *DiceOptions)) *DiceTool {
	opts := DiceOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	var rng *rand.Rand
	if opts.Source != nil {
		rng = rand.New(opts.Source)
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &DiceTool{rng: rng}
}

// Name implements Tool.
func (t *DiceTool) Name() string { return RollDiceName }

// Description implements Tool.
func (t *DiceTool) Description() string {
	return "Roll dice using an expression like 1d20+3, optionally against a difficulty, with advantage or disadvantage on a single d20."
}

// Parameters implements Tool.
func (t *DiceTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dice_expression": map[string]any{"type": "string"},
			"difficulty":      map[string]any{"type": "integer"},
			"advantage":       map[string]any{"type": "boolean"},
			"disadvantage":    map[string]any{"type": "boolean"},
		},
		"required": []string{"dice_expression"},
	}
}

// Call implements Tool.
func (t *DiceTool) Call(_ *core.ToolContext, args map[string]any) (any, error) {
	var in RollDiceInput
	if err := decodeArgs(args, &in); err != nil {
		return nil, NewToolError(RollDiceName, err.Error(), "VALIDATION_ERROR")
	}
	return t.Roll(in)
}

// Roll parses and rolls the expression. Advantage and disadvantage apply
// only to a single d20 and are mutually exclusive.
func (t *DiceTool) Roll(in RollDiceInput) (*core.CheckResult, error) {
	count, sides, modifier, err := parseDiceExpression(in.DiceExpression)
	if err != nil {
		return nil, NewToolError(RollDiceName, err.Error(), "INVALID_EXPRESSION")
	}
	if in.Advantage && in.Disadvantage {
		return nil, NewToolError(RollDiceName, "advantage and disadvantage are mutually exclusive", "INVALID_EXPRESSION")
	}

	useEdge := (in.Advantage || in.Disadvantage) && count == 1 && sides == 20

	t.mu.Lock()
	var rolls []int
	if useEdge {
		a, b := t.rng.Intn(20)+1, t.rng.Intn(20)+1
		kept := a
		if in.Advantage && b > a || in.Disadvantage && b < a {
			kept = b
		}
		rolls = []int{kept}
	} else {
		rolls = make([]int, count)
		for i := range rolls {
			rolls[i] = t.rng.Intn(sides) + 1
		}
	}
	t.mu.Unlock()

	total := 0
	for _, r := range rolls {
		total += r
	}

	result := &core.CheckResult{
		Rolls:      rolls,
		Total:      total,
		Modifier:   modifier,
		FinalTotal: total + modifier,
	}

	if count == 1 && sides == 20 {
		result.CriticalSuccess = rolls[0] == 20
		result.CriticalFailure = rolls[0] == 1
	}
	if in.Difficulty != nil {
		success := result.FinalTotal >= *in.Difficulty
		if result.CriticalSuccess {
			success = true
		}
		if result.CriticalFailure {
			success = false
		}
		result.Success = &success
	}

	return result, nil
}

func parseDiceExpression(expr string) (count, sides, modifier int, err error) {
	m := diceExprRe.FindStringSubmatch(expr)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("malformed dice expression %q", expr)
	}

	count, sides = 1, 6
	if m[1] != "" {
		if count, err = strconv.Atoi(m[1]); err != nil || count < 1 {
			return 0, 0, 0, fmt.Errorf("invalid die count in %q", expr)
		}
	}
	if m[2] != "" {
		if sides, err = strconv.Atoi(m[2]); err != nil || sides < 2 {
			return 0, 0, 0, fmt.Errorf("invalid die sides in %q", expr)
		}
	}
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[4])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid modifier in %q", expr)
		}
		if m[3] == "-" {
			modifier = -modifier
		}
	}

	return count, sides, modifier, nil
}
