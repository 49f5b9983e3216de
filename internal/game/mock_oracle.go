package game

import (
	"context"
	"sync"

	"github.com/tatianab/aeterna/internal/models"
)

// MockOracle is a scriptable Oracle for tests.
type MockOracle struct {
	StartGameFunc     func(ctx context.Context) (models.TurnResponse, error)
	AdvanceTurnFunc   func(ctx context.Context, req TurnRequest) (models.TurnResponse, error)
	GenerateHintFunc  func(ctx context.Context, history []models.Message) (string, error)
	GenerateImageFunc func(ctx context.Context, sceneDescription string) (*models.SceneImage, error)

	// Track calls for testing
	StartGameCalls     int
	AdvanceTurnCalls   []TurnRequest
	GenerateHintCalls  [][]models.Message
	GenerateImageCalls []string

	mu sync.Mutex // protects the call tracking fields
}

var _ Oracle = (*MockOracle)(nil)

func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

func (m *MockOracle) StartGame(ctx context.Context) (models.TurnResponse, error) {
	m.mu.Lock()
	m.StartGameCalls++
	fn := m.StartGameFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return models.TurnResponse{
		Narrative:        "Mock opening",
		SceneDescription: "mock scene",
		SuggestedActions: []models.Action{{Label: "look around", Type: models.ActionExploration}},
	}, nil
}

func (m *MockOracle) AdvanceTurn(ctx context.Context, req TurnRequest) (models.TurnResponse, error) {
	m.mu.Lock()
	m.AdvanceTurnCalls = append(m.AdvanceTurnCalls, req)
	fn := m.AdvanceTurnFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return models.TurnResponse{
		Narrative:        "Mock response",
		SuggestedActions: []models.Action{},
	}, nil
}

func (m *MockOracle) GenerateHint(ctx context.Context, history []models.Message) (string, error) {
	m.mu.Lock()
	m.GenerateHintCalls = append(m.GenerateHintCalls, history)
	fn := m.GenerateHintFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, history)
	}
	return "Mock hint", nil
}

func (m *MockOracle) GenerateImage(ctx context.Context, sceneDescription string) (*models.SceneImage, error) {
	m.mu.Lock()
	m.GenerateImageCalls = append(m.GenerateImageCalls, sceneDescription)
	fn := m.GenerateImageFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, sceneDescription)
	}
	return nil, nil
}

// SetStartGameError makes StartGame fail with err.
func (m *MockOracle) SetStartGameError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartGameFunc = func(ctx context.Context) (models.TurnResponse, error) {
		return models.TurnResponse{}, err
	}
}

// SetAdvanceTurnError makes AdvanceTurn fail with err.
func (m *MockOracle) SetAdvanceTurnError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdvanceTurnFunc = func(ctx context.Context, req TurnRequest) (models.TurnResponse, error) {
		return models.TurnResponse{}, err
	}
}

// SetAdvanceTurnResponse makes AdvanceTurn return resp.
func (m *MockOracle) SetAdvanceTurnResponse(resp models.TurnResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdvanceTurnFunc = func(ctx context.Context, req TurnRequest) (models.TurnResponse, error) {
		return resp, nil
	}
}

// Calls returns copies of the call tracking data.
func (m *MockOracle) Calls() (startGame int, turns []TurnRequest, hints [][]models.Message, images []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns = append([]TurnRequest(nil), m.AdvanceTurnCalls...)
	hints = append([][]models.Message(nil), m.GenerateHintCalls...)
	images = append([]string(nil), m.GenerateImageCalls...)
	return m.StartGameCalls, turns, hints, images
}
