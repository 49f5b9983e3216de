package game

import (
	"context"
	"errors"

	"github.com/tatianab/aeterna/internal/models"
)

// Oracle is the external narrative service that produces every piece of game
// content. Implementations own their own timeout and retry policy.
type Oracle interface {
	// StartGame produces the opening scene of a new run.
	StartGame(ctx context.Context) (models.TurnResponse, error)

	// AdvanceTurn resolves a player action into the next turn.
	AdvanceTurn(ctx context.Context, req TurnRequest) (models.TurnResponse, error)

	// GenerateHint returns a short hint derived from recent history.
	GenerateHint(ctx context.Context, history []models.Message) (string, error)

	// GenerateImage renders a scene description. A nil image with a nil
	// error means no image was produced.
	GenerateImage(ctx context.Context, sceneDescription string) (*models.SceneImage, error)
}

// TurnRequest is the context sent along with a player action.
type TurnRequest struct {
	History   []models.Message // bounded trailing window, newest last
	Stats     models.PlayerStats
	Inventory models.Inventory
	Action    string
}

// ErrEmptyResponse is returned by an Oracle that produced no content.
var ErrEmptyResponse = errors.New("oracle returned an empty response")
