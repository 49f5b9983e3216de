package game

import (
	"slices"

	"github.com/google/uuid"
	"github.com/tatianab/aeterna/internal/models"
)

// Snapshot is a point-in-time copy of everything the presentation layer may
// render. Mutating it has no effect on the orchestrator.
type Snapshot struct {
	Phase        models.Phase
	RunID        uuid.UUID
	Stats        models.PlayerStats
	Inventory    models.Inventory
	History      []models.Message
	Suggestions  []models.Action
	Image        *models.SceneImage
	TurnInFlight bool
	ImageLoading bool
	HintLoading  bool
	ActiveHint   string
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Phase:        o.phase,
		RunID:        o.runID,
		Stats:        o.stats,
		Inventory:    o.inventory.Clone(),
		History:      o.history.Entries(),
		Suggestions:  slices.Clone(o.suggestions),
		Image:        o.image,
		TurnInFlight: o.turnInFlight,
		ImageLoading: o.imagesPending > 0,
		HintLoading:  o.hintLoading,
		ActiveHint:   o.activeHint,
	}
}

// LastNarrative returns the newest model entry of the log, if any.
func (s Snapshot) LastNarrative() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == models.RoleModel {
			return s.History[i].Content
		}
	}
	return ""
}
