package engine

import "github.com/google/generative-ai-go/genai"

// turnResponseSchema constrains Gemini's JSON mode to the turn contract.
var turnResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"narrative": {
			Type:        genai.TypeString,
			Description: "El texto narrativo de la historia para este turno.",
		},
		"sceneDescription": {
			Type:        genai.TypeString,
			Description: "Una descripción visual detallada de la escena para la generación de imágenes.",
		},
		"suggestedActions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"label": {Type: genai.TypeString, Description: "El texto de la acción que verá el jugador."},
					"type":  {Type: genai.TypeString, Enum: []string{"combat", "exploration", "diplomacy", "neutral"}},
				},
				Required: []string{"label", "type"},
			},
		},
		"statUpdates": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"healthChange":    {Type: genai.TypeInteger, Description: "Negativo para daño, positivo para curación."},
				"stabilityChange": {Type: genai.TypeInteger, Description: "Negativo para pérdida de cordura, positivo para recuperación."},
				"fragmentsChange": {Type: genai.TypeInteger, Description: "Cambio en la cantidad de fragmentos."},
				"levelChange":     {Type: genai.TypeInteger, Description: "Cambio en el nivel."},
			},
			Nullable: true,
		},
		"inventoryUpdates": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"add":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Objetos para añadir al inventario."},
				"remove": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Objetos para eliminar del inventario."},
			},
			Nullable: true,
		},
		"gameOver": {Type: genai.TypeBoolean},
	},
	Required: []string{"narrative", "sceneDescription", "suggestedActions"},
}
