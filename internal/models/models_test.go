package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTurnResponse(t *testing.T) {
	payload := "```json\n" + `{
		"narrative": "Despiertas entre relojes rotos.",
		"sceneDescription": "A ruined clocktower at dusk",
		"suggestedActions": [
			{"label": "Examinar los engranajes", "type": "exploration"},
			{"label": "Desenvainar la hoja", "type": "combat"}
		],
		"statUpdates": {"healthChange": -30, "fragmentsChange": 0},
		"inventoryUpdates": {"add": ["antorcha"]},
		"gameOver": false
	}` + "\n```"

	resp, err := DecodeTurnResponse([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "Despiertas entre relojes rotos.", resp.Narrative)
	assert.Equal(t, "A ruined clocktower at dusk", resp.SceneDescription)
	require.Len(t, resp.SuggestedActions, 2)
	assert.Equal(t, ActionCombat, resp.SuggestedActions[1].Type)

	require.NotNil(t, resp.StatUpdates)
	assert.Equal(t, -30, resp.StatUpdates.Health())
	require.NotNil(t, resp.StatUpdates.FragmentsChange, "explicit zero must stay distinguishable")
	assert.Equal(t, 0, resp.StatUpdates.Fragments())
	assert.Nil(t, resp.StatUpdates.StabilityChange)
	assert.Equal(t, 0, resp.StatUpdates.Stability())

	assert.Equal(t, []string{"antorcha"}, resp.InventoryUpdates.Add)
	assert.False(t, resp.IsGameOver())
}

func TestDecodeTurnResponse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"not json", "El tejido del tiempo"},
		{"missing narrative", `{"sceneDescription":"x","suggestedActions":[]}`},
		{"blank narrative", `{"narrative":"  ","sceneDescription":"x","suggestedActions":[]}`},
		{"missing scene", `{"narrative":"n","suggestedActions":[]}`},
		{"missing actions", `{"narrative":"n","sceneDescription":"x"}`},
		{"bad action type", `{"narrative":"n","sceneDescription":"x","suggestedActions":[{"label":"a","type":"magic"}]}`},
		{"wrong field type", `{"narrative":"n","sceneDescription":"x","suggestedActions":[],"statUpdates":{"healthChange":"lots"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTurnResponse([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodeTurnResponse_OptionalFieldsAbsent(t *testing.T) {
	resp, err := DecodeTurnResponse([]byte(`{"narrative":"n","sceneDescription":"","suggestedActions":[]}`))
	require.NoError(t, err)

	assert.Nil(t, resp.StatUpdates)
	assert.Nil(t, resp.InventoryUpdates)
	assert.Nil(t, resp.GameOver)
	assert.False(t, resp.IsGameOver())
	assert.Equal(t, 0, resp.StatUpdates.Health(), "nil receiver reads as zero")
	assert.Empty(t, resp.SuggestedActions)
}

func TestInventoryMerge(t *testing.T) {
	tests := []struct {
		name   string
		inv    Inventory
		add    []string
		remove []string
		want   Inventory
	}{
		{"add to empty", nil, []string{"llave"}, nil, Inventory{"llave"}},
		{"duplicates collapse", Inventory{"antorcha"}, []string{"antorcha", "llave", "llave"}, nil, Inventory{"antorcha", "llave"}},
		{"remove wins over add", Inventory{"torch"}, []string{"torch", "key"}, []string{"torch"}, Inventory{"key"}},
		{"remove missing item", Inventory{"key"}, nil, []string{"rope"}, Inventory{"key"}},
		{"no updates", Inventory{"a", "b"}, nil, nil, Inventory{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.inv.Merge(tt.add, tt.remove)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestInventoryMerge_Idempotent(t *testing.T) {
	add := []string{"espejo", "llave"}
	once := Inventory{"antorcha"}.Merge(add, nil)
	twice := once.Merge(add, nil)
	assert.Equal(t, once, twice)
}

func TestInventoryMerge_DoesNotAlias(t *testing.T) {
	inv := make(Inventory, 1, 8)
	inv[0] = "antorcha"
	merged := inv.Merge([]string{"llave"}, nil)
	merged[0] = "changed"
	assert.Equal(t, "antorcha", inv[0])
}

func TestHistoryLogRecent(t *testing.T) {
	var h HistoryLog
	for _, c := range []string{"a", "b", "c", "d"} {
		h.Append(Message{Role: RoleUser, Content: c})
	}

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Content)
	assert.Equal(t, "d", recent[1].Content)

	assert.Len(t, h.Recent(10), 4)
	assert.Empty(t, h.Recent(0))

	recent[0].Content = "mutated"
	assert.Equal(t, "c", h.Entries()[2].Content, "window is a copy")
	assert.Equal(t, 4, h.Len())

	h.Reset()
	assert.Equal(t, 0, h.Len())
}

func TestSceneImageDataURL(t *testing.T) {
	img := &SceneImage{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	url := img.DataURL()
	assert.Equal(t, "data:image/png;base64,iVBORw==", url)

	back, err := ParseDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, img, back)

	for _, bad := range []string{"", "image/png;base64,aaaa", "data:;base64,aaaa", "data:image/png,raw", "data:image/png;base64,!!"} {
		_, err := ParseDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}

func TestTurnResponseSchema(t *testing.T) {
	data, err := json.Marshal(TurnResponseSchema())
	require.NoError(t, err)

	var doc struct {
		Title      string                     `json:"title"`
		Required   []string                   `json:"required"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Aeterna Turn Response", doc.Title)
	assert.ElementsMatch(t, []string{"narrative", "sceneDescription", "suggestedActions"}, doc.Required)
	assert.Contains(t, doc.Properties, "statUpdates")
	assert.Contains(t, string(doc.Properties["suggestedActions"]), "diplomacy")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "INTRO", PhaseIntro.String())
	assert.Equal(t, "GAMEOVER", PhaseGameOver.String())
	assert.Equal(t, "UNKNOWN", Phase(42).String())
}
