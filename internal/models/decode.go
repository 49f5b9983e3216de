package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is returned when oracle output does not satisfy the
// turn response contract.
var ErrMalformedResponse = errors.New("malformed turn response")

// wireTurnResponse mirrors TurnResponse with pointers on the mandatory
// fields so that a missing key can be told apart from an empty one.
type wireTurnResponse struct {
	Narrative        *string           `json:"narrative" jsonschema:"required,description=Narrative text shown to the player for this turn"`
	SceneDescription *string           `json:"sceneDescription" jsonschema:"required,description=Detailed visual description of the scene used for image generation"`
	SuggestedActions *[]wireAction     `json:"suggestedActions" jsonschema:"required"`
	StatUpdates      *StatUpdates      `json:"statUpdates,omitempty"`
	InventoryUpdates *InventoryUpdates `json:"inventoryUpdates,omitempty"`
	GameOver         *bool             `json:"gameOver,omitempty"`
}

type wireAction struct {
	Label string     `json:"label" jsonschema:"required"`
	Type  ActionType `json:"type" jsonschema:"required,enum=combat,enum=exploration,enum=diplomacy,enum=neutral"`
}

// DecodeTurnResponse strictly decodes oracle JSON into a TurnResponse. Any
// violation of the contract fails the whole response; nothing is partially
// applied by callers.
func DecodeTurnResponse(data []byte) (TurnResponse, error) {
	data = stripCodeFence(data)
	if len(data) == 0 {
		return TurnResponse{}, fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	var wire wireTurnResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return TurnResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case wire.Narrative == nil:
		return TurnResponse{}, fmt.Errorf("%w: missing narrative", ErrMalformedResponse)
	case strings.TrimSpace(*wire.Narrative) == "":
		return TurnResponse{}, fmt.Errorf("%w: empty narrative", ErrMalformedResponse)
	case wire.SceneDescription == nil:
		return TurnResponse{}, fmt.Errorf("%w: missing sceneDescription", ErrMalformedResponse)
	case wire.SuggestedActions == nil:
		return TurnResponse{}, fmt.Errorf("%w: missing suggestedActions", ErrMalformedResponse)
	}

	actions := make([]Action, 0, len(*wire.SuggestedActions))
	for i, a := range *wire.SuggestedActions {
		if !a.Type.Valid() {
			return TurnResponse{}, fmt.Errorf("%w: suggestedActions[%d] has unknown type %q", ErrMalformedResponse, i, a.Type)
		}
		actions = append(actions, Action{Label: a.Label, Type: a.Type})
	}

	return TurnResponse{
		Narrative:        *wire.Narrative,
		SceneDescription: *wire.SceneDescription,
		SuggestedActions: actions,
		StatUpdates:      wire.StatUpdates,
		InventoryUpdates: wire.InventoryUpdates,
		GameOver:         wire.GameOver,
	}, nil
}

func stripCodeFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte("```json"))
	data = bytes.TrimPrefix(data, []byte("```"))
	data = bytes.TrimSuffix(data, []byte("```"))
	return bytes.TrimSpace(data)
}
