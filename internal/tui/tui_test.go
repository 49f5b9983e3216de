package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/aeterna/internal/game"
	"github.com/tatianab/aeterna/internal/models"
)

var testMessages = game.Messages{
	TurnFailure:      "El tejido del tiempo se ondula...",
	HintLowStability: "Tu mente es demasiado frágil...",
	HintFailure:      "Tu mente está demasiado nublada.",
	HintSilent:       "El vacío guarda silencio...",
}

func newTestModel(t *testing.T, oracle *game.MockOracle) (model, *game.Orchestrator) {
	t.Helper()
	orch := game.NewOrchestrator(oracle, testMessages, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(orch.Wait)

	m := NewModel(context.Background(), orch, "El Desgarro de Aeterna")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(model), orch
}

// press feeds a key to the model and runs the resulting command, if any,
// feeding its message back in.
func press(t *testing.T, m model, key tea.KeyMsg) model {
	t.Helper()
	updated, cmd := m.Update(key)
	m = updated.(model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			updated, _ = m.Update(msg)
			m = updated.(model)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestIntroView(t *testing.T) {
	m, _ := newTestModel(t, game.NewMockOracle())
	assert.Contains(t, m.View(), "EL DESGARRO DE AETERNA")
	assert.Contains(t, m.View(), "Enter")
}

func TestEnterStartsGame(t *testing.T) {
	oracle := game.NewMockOracle()
	m, _ := newTestModel(t, oracle)

	m = press(t, m, enter)
	assert.Equal(t, models.PhasePlaying, m.snap.Phase)
	assert.Contains(t, m.View(), "Mock opening")
	assert.Contains(t, m.View(), "[1] look around")
	assert.Contains(t, m.View(), "100/100")

	calls, _, _, _ := oracle.Calls()
	assert.Equal(t, 1, calls)
}

func TestStartFailureShowsErrorScreen(t *testing.T) {
	oracle := game.NewMockOracle()
	oracle.SetStartGameError(assert.AnError)
	m, _ := newTestModel(t, oracle)

	m = press(t, m, enter)
	assert.Equal(t, models.PhaseError, m.snap.Phase)
	assert.Contains(t, m.View(), "No se pudo abrir la grieta")

	m = press(t, m, enter)
	assert.Equal(t, models.PhaseIntro, m.snap.Phase)
}

func TestDigitPicksSuggestion(t *testing.T) {
	oracle := game.NewMockOracle()
	m, _ := newTestModel(t, oracle)
	m = press(t, m, enter)

	m = press(t, m, runes("1"))

	_, turns, _, _ := oracle.Calls()
	require.Len(t, turns, 1)
	assert.Equal(t, "look around", turns[0].Action)
	assert.Contains(t, m.View(), "Mock response")
}

func TestDigitOutOfRangeIsTyped(t *testing.T) {
	oracle := game.NewMockOracle()
	m, _ := newTestModel(t, oracle)
	m = press(t, m, enter)

	m = press(t, m, runes("3"))

	_, turns, _, _ := oracle.Calls()
	assert.Empty(t, turns)
	assert.Equal(t, "3", m.textInput.Value())
}

func TestTypedActionSubmitsOnEnter(t *testing.T) {
	oracle := game.NewMockOracle()
	m, _ := newTestModel(t, oracle)
	m = press(t, m, enter)

	m = press(t, m, runes("abrir 2 puertas"))
	assert.Equal(t, "abrir 2 puertas", m.textInput.Value())

	m = press(t, m, enter)
	_, turns, _, _ := oracle.Calls()
	require.Len(t, turns, 1)
	assert.Equal(t, "abrir 2 puertas", turns[0].Action)
	assert.Empty(t, m.textInput.Value())
}

func TestBlankEnterIsIgnored(t *testing.T) {
	oracle := game.NewMockOracle()
	m, _ := newTestModel(t, oracle)
	m = press(t, m, enter)

	press(t, m, enter)
	_, turns, _, _ := oracle.Calls()
	assert.Empty(t, turns)
}

func TestHintOverlay(t *testing.T) {
	oracle := game.NewMockOracle()
	m, _ := newTestModel(t, oracle)
	m = press(t, m, enter)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.Equal(t, "Mock hint", m.snap.ActiveHint)
	assert.Equal(t, 95, m.snap.Stats.Stability)
	assert.Contains(t, m.View(), "Mock hint")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.snap.ActiveHint)
	assert.NotContains(t, m.View(), "Mock hint")
}

func TestGameOverReturnsToIntro(t *testing.T) {
	oracle := game.NewMockOracle()
	over := true
	oracle.SetAdvanceTurnResponse(models.TurnResponse{
		Narrative:        "El tiempo te consume.",
		SceneDescription: "darkness",
		SuggestedActions: []models.Action{},
		GameOver:         &over,
	})
	m, _ := newTestModel(t, oracle)
	m = press(t, m, enter)
	m = press(t, m, runes("1"))

	assert.Equal(t, models.PhaseGameOver, m.snap.Phase)
	assert.Contains(t, m.View(), "FIN DE LA PARTIDA")
	assert.Contains(t, m.View(), "El tiempo te consume.")

	m = press(t, m, enter)
	assert.Equal(t, models.PhaseIntro, m.snap.Phase)
}

func TestCopyNarrative(t *testing.T) {
	m, _ := newTestModel(t, game.NewMockOracle())
	m = press(t, m, enter)

	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Mock opening", copied)
	assert.Contains(t, m.View(), "Narración copiada.")
}

func TestChangedMsgRearmsListener(t *testing.T) {
	m, orch := newTestModel(t, game.NewMockOracle())
	require.NoError(t, orch.StartGame(context.Background()))

	updated, cmd := m.Update(changedMsg{})
	m = updated.(model)
	assert.Equal(t, models.PhasePlaying, m.snap.Phase)
	assert.NotNil(t, cmd)
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name         string
		value, limit int
		want         string
	}{
		{name: "full", value: 100, limit: 100, want: "██████████"},
		{name: "half", value: 50, limit: 100, want: "█████░░░░░"},
		{name: "empty", value: 0, limit: 100, want: "░░░░░░░░░░"},
		{name: "negative clamps", value: -20, limit: 100, want: "░░░░░░░░░░"},
		{name: "overflow clamps", value: 150, limit: 100, want: "██████████"},
		{name: "zero limit", value: 5, limit: 0, want: "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderBar(tt.value, tt.limit, 10, healthColor))
		})
	}
}
