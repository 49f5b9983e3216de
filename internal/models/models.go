package models

// PlayerStats represents the player's numeric condition.
type PlayerStats struct {
	Health       int `json:"health" yaml:"health"`
	MaxHealth    int `json:"maxHealth" yaml:"max_health"`
	Stability    int `json:"stability" yaml:"stability"` // sanity, also spent on hints
	MaxStability int `json:"maxStability" yaml:"max_stability"`
	Fragments    int `json:"fragments" yaml:"fragments"` // currency and experience
	Level        int `json:"level" yaml:"level"`
}

// InitialStats returns the stats every new run starts with.
func InitialStats() PlayerStats {
	return PlayerStats{
		Health:       100,
		MaxHealth:    100,
		Stability:    100,
		MaxStability: 100,
		Fragments:    0,
		Level:        1,
	}
}

// ActionType classifies a suggested action.
type ActionType string

const (
	ActionCombat      ActionType = "combat"
	ActionExploration ActionType = "exploration"
	ActionDiplomacy   ActionType = "diplomacy"
	ActionNeutral     ActionType = "neutral"
)

// ActionTypes lists every valid ActionType in display order.
var ActionTypes = []ActionType{ActionCombat, ActionExploration, ActionDiplomacy, ActionNeutral}

func (t ActionType) Valid() bool {
	switch t {
	case ActionCombat, ActionExploration, ActionDiplomacy, ActionNeutral:
		return true
	}
	return false
}

// Action is one of the oracle's suggested next moves.
type Action struct {
	Label string     `json:"label"`
	Type  ActionType `json:"type"`
}

// StatUpdates holds the per-turn stat deltas. A nil field means the oracle
// did not send it, which is treated as zero.
type StatUpdates struct {
	HealthChange    *int `json:"healthChange,omitempty"`
	StabilityChange *int `json:"stabilityChange,omitempty"`
	FragmentsChange *int `json:"fragmentsChange,omitempty"`
	LevelChange     *int `json:"levelChange,omitempty"`
}

// Health returns the health delta, zero when absent. Safe on a nil receiver.
func (s *StatUpdates) Health() int {
	if s == nil {
		return 0
	}
	return valueOrZero(s.HealthChange)
}

func (s *StatUpdates) Stability() int {
	if s == nil {
		return 0
	}
	return valueOrZero(s.StabilityChange)
}

func (s *StatUpdates) Fragments() int {
	if s == nil {
		return 0
	}
	return valueOrZero(s.FragmentsChange)
}

func (s *StatUpdates) Level() int {
	if s == nil {
		return 0
	}
	return valueOrZero(s.LevelChange)
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// InventoryUpdates lists items gained and lost during a turn.
type InventoryUpdates struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// TurnResponse is what the Narrative Oracle returns for the opening scene and
// for every turn.
type TurnResponse struct {
	Narrative        string            `json:"narrative"`
	SceneDescription string            `json:"sceneDescription"`
	SuggestedActions []Action          `json:"suggestedActions"`
	StatUpdates      *StatUpdates      `json:"statUpdates,omitempty"`
	InventoryUpdates *InventoryUpdates `json:"inventoryUpdates,omitempty"`
	GameOver         *bool             `json:"gameOver,omitempty"`
}

func (r TurnResponse) IsGameOver() bool {
	return r.GameOver != nil && *r.GameOver
}

// Role identifies who wrote a history entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is a single entry of the story log.
type Message struct {
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Image   *SceneImage `json:"image,omitempty"`
	System  bool        `json:"system,omitempty"`
}

// Phase is the presentation state of a run.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseLoading
	PhasePlaying
	PhaseGameOver
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "INTRO"
	case PhaseLoading:
		return "LOADING"
	case PhasePlaying:
		return "PLAYING"
	case PhaseGameOver:
		return "GAMEOVER"
	case PhaseError:
		return "ERROR"
	}
	return "UNKNOWN"
}
