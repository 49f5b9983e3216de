package game

import "github.com/tatianab/aeterna/internal/models"

// Outcome is the result of merging a turn response into player state.
type Outcome struct {
	Stats       models.PlayerStats
	Inventory   models.Inventory
	Suggestions []models.Action
	GameOver    bool
}

// Apply merges resp into the previous stats and inventory. It is pure and
// never fails: absent fields are zero deltas or empty lists.
//
// Health and stability are clamped to [0, max], fragments never go below
// zero and level never goes below 1. Game over is read only from the
// response flag; a stat reaching zero does not end the run by itself.
func Apply(prev models.PlayerStats, inv models.Inventory, resp models.TurnResponse) Outcome {
	out := Outcome{
		Stats:       prev,
		Inventory:   inv.Clone(),
		Suggestions: []models.Action{},
		GameOver:    resp.IsGameOver(),
	}

	if u := resp.StatUpdates; u != nil {
		out.Stats.Health = clamp(prev.Health+u.Health(), 0, prev.MaxHealth)
		out.Stats.Stability = clamp(prev.Stability+u.Stability(), 0, prev.MaxStability)
		out.Stats.Fragments = max(0, prev.Fragments+u.Fragments())
		out.Stats.Level = max(1, prev.Level+u.Level())
	}

	if u := resp.InventoryUpdates; u != nil {
		out.Inventory = inv.Merge(u.Add, u.Remove)
	}

	if len(resp.SuggestedActions) > 0 {
		out.Suggestions = append(out.Suggestions, resp.SuggestedActions...)
	}

	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
