package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/aeterna/internal/game"
	"github.com/tatianab/aeterna/internal/models"
	"github.com/tatianab/aeterna/internal/scenario"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

//go:embed prompts/process_turn.txt
var processTurnPrompt string

//go:embed prompts/generate_hint.txt
var generateHintPrompt string

//go:embed prompts/scene_image.txt
var sceneImagePrompt string

var (
	processTurnTmpl  = template.Must(template.New("process_turn").Parse(processTurnPrompt))
	generateHintTmpl = template.Must(template.New("generate_hint").Parse(generateHintPrompt))
	sceneImageTmpl   = template.Must(template.New("scene_image").Parse(sceneImagePrompt))
)

const (
	turnTemperature = 0.7
	hintTemperature = 1.0
	hintMaxTokens   = 100
)

// ImageCache stores rendered scenes. Implementations must treat a miss as
// (nil, nil).
type ImageCache interface {
	Get(ctx context.Context, sceneDescription string) (*models.SceneImage, error)
	Put(ctx context.Context, sceneDescription string, img *models.SceneImage) error
}

// Options configures the Gemini-backed oracle.
type Options struct {
	APIKey     string
	TextModel  string
	ImageModel string
	Scenario   *scenario.Scenario
	Cache      ImageCache // optional
	Logger     *slog.Logger
}

// contentGenerator is satisfied by *genai.GenerativeModel.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Engine is the Narrative Oracle backed by Google Gemini.
type Engine struct {
	client   *genai.Client
	scenario *scenario.Scenario
	cache    ImageCache
	logger   *slog.Logger
	tracer   trace.Tracer

	textModel  string
	imageModel string

	opening contentGenerator
	turn    contentGenerator
	hint    contentGenerator
	image   contentGenerator
}

var _ game.Oracle = (*Engine)(nil)

func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Scenario == nil {
		return nil, fmt.Errorf("engine: scenario is required")
	}
	systemPrompt, err := opts.Scenario.SystemPrompt()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, err
	}

	gm := genai.NewUserContent(genai.Text(systemPrompt))

	opening := client.GenerativeModel(opts.TextModel)
	opening.SystemInstruction = gm
	opening.ResponseMIMEType = "application/json"
	opening.ResponseSchema = turnResponseSchema

	turn := client.GenerativeModel(opts.TextModel)
	turn.SystemInstruction = gm
	turn.ResponseMIMEType = "application/json"
	turn.ResponseSchema = turnResponseSchema
	// Slightly lower temperature for consistent game logic.
	turn.SetTemperature(turnTemperature)

	hint := client.GenerativeModel(opts.TextModel)
	hint.SystemInstruction = genai.NewUserContent(genai.Text(opts.Scenario.HintPrompt))
	hint.SetTemperature(hintTemperature)
	hint.SetMaxOutputTokens(hintMaxTokens)

	image := client.GenerativeModel(opts.ImageModel)

	e := newEngine(opts, opening, turn, hint, image)
	e.client = client
	return e, nil
}

func newEngine(opts Options, opening, turn, hint, image contentGenerator) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		scenario:   opts.Scenario,
		cache:      opts.Cache,
		logger:     logger,
		tracer:     otel.Tracer("github.com/tatianab/aeterna/internal/engine"),
		textModel:  opts.TextModel,
		imageModel: opts.ImageModel,
		opening:    opening,
		turn:       turn,
		hint:       hint,
		image:      image,
	}
}

func (e *Engine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// StartGame asks for the opening scene of a new run.
func (e *Engine) StartGame(ctx context.Context) (resp models.TurnResponse, err error) {
	ctx, span := e.startSpan(ctx, "engine.StartGame", e.textModel)
	defer func() { endSpan(span, err) }()

	text, err := generateText(ctx, e.opening, e.scenario.OpeningInstruction)
	if err != nil {
		return models.TurnResponse{}, fmt.Errorf("failed to start game: %w", err)
	}
	resp, err = models.DecodeTurnResponse([]byte(text))
	if err != nil {
		e.logger.Debug("Rejected opening response", "output", text)
		return models.TurnResponse{}, err
	}
	return resp, nil
}

// AdvanceTurn resolves a player action.
func (e *Engine) AdvanceTurn(ctx context.Context, req game.TurnRequest) (resp models.TurnResponse, err error) {
	ctx, span := e.startSpan(ctx, "engine.AdvanceTurn", e.textModel)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int("aeterna.history_len", len(req.History)))

	prompt, err := renderTurnPrompt(req)
	if err != nil {
		return models.TurnResponse{}, err
	}
	text, err := generateText(ctx, e.turn, prompt)
	if err != nil {
		return models.TurnResponse{}, fmt.Errorf("failed to generate turn: %w", err)
	}
	resp, err = models.DecodeTurnResponse([]byte(text))
	if err != nil {
		e.logger.Debug("Rejected turn response", "output", text)
		return models.TurnResponse{}, err
	}
	span.SetAttributes(attribute.Bool("aeterna.game_over", resp.IsGameOver()))
	return resp, nil
}

// GenerateHint asks the hint persona for a nudge based on recent history.
func (e *Engine) GenerateHint(ctx context.Context, history []models.Message) (hint string, err error) {
	ctx, span := e.startSpan(ctx, "engine.GenerateHint", e.textModel)
	defer func() { endSpan(span, err) }()

	var buf bytes.Buffer
	if err := generateHintTmpl.Execute(&buf, struct{ History string }{formatHistory(history)}); err != nil {
		return "", err
	}
	hint, err = generateText(ctx, e.hint, buf.String())
	if err != nil {
		return "", fmt.Errorf("failed to generate hint: %w", err)
	}
	return strings.TrimSpace(hint), nil
}

// GenerateImage renders a first-person view of the scene. It returns nil
// without error when the model produced no inline image.
func (e *Engine) GenerateImage(ctx context.Context, sceneDescription string) (img *models.SceneImage, err error) {
	ctx, span := e.startSpan(ctx, "engine.GenerateImage", e.imageModel)
	defer func() { endSpan(span, err) }()

	if e.cache != nil {
		cached, err := e.cache.Get(ctx, sceneDescription)
		if err != nil {
			e.logger.Warn("Scene image cache unavailable", "error", err)
		} else if cached != nil {
			span.SetAttributes(attribute.Bool("aeterna.cache_hit", true))
			return cached, nil
		}
	}

	var buf bytes.Buffer
	data := struct{ Scene, Style string }{sceneDescription, e.scenario.ImageStyle}
	if err := sceneImageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	resp, err := e.image.GenerateContent(ctx, genai.Text(strings.TrimSpace(buf.String())))
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	img = firstImage(resp)
	if img == nil {
		return nil, nil
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, sceneDescription, img); err != nil {
			e.logger.Warn("Failed to cache scene image", "error", err)
		}
	}
	return img, nil
}

func (e *Engine) startSpan(ctx context.Context, name, model string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("gemini.model", model)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func generateText(ctx context.Context, model contentGenerator, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", game.ErrEmptyResponse
	}
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func firstImage(resp *genai.GenerateContentResponse) *models.SceneImage {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return &models.SceneImage{MIMEType: blob.MIMEType, Data: blob.Data}
		}
	}
	return nil
}

func renderTurnPrompt(req game.TurnRequest) (string, error) {
	inventory := "Vacío"
	if len(req.Inventory) > 0 {
		inventory = strings.Join(req.Inventory, ", ")
	}

	data := struct {
		Stats     models.PlayerStats
		Inventory string
		History   string
		Action    string
	}{
		Stats:     req.Stats,
		Inventory: inventory,
		History:   formatHistory(req.History),
		Action:    req.Action,
	}

	var buf bytes.Buffer
	if err := processTurnTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatHistory renders the narrative part of the log; system notes and
// image entries are not sent back to the model.
func formatHistory(history []models.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		if msg.System || msg.Image != nil {
			continue
		}
		speaker := "GM"
		if msg.Role == models.RoleUser {
			speaker = "Jugador"
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, msg.Content)
	}
	return sb.String()
}
