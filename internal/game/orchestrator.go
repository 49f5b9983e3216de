package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tatianab/aeterna/internal/logger"
	"github.com/tatianab/aeterna/internal/models"
)

const (
	// HintCost is the stability paid for every hint request.
	HintCost = 5
	// TurnWindow is how many trailing history entries accompany an action.
	TurnWindow = 6
	// HintWindow is how many trailing history entries a hint is derived from.
	HintWindow = 4
)

// ErrTurnInFlight is returned by StartGame while another turn is running.
var ErrTurnInFlight = errors.New("turn already in flight")

// Messages are the fixed in-character texts used in place of errors.
type Messages struct {
	TurnFailure      string
	HintLowStability string
	HintFailure      string
	HintSilent       string
}

// Orchestrator owns the state of a run and sequences every oracle call.
// All mutation happens under mu; mu is never held while the oracle works.
type Orchestrator struct {
	oracle Oracle
	msgs   Messages
	logger *slog.Logger

	mu            sync.Mutex
	phase         models.Phase
	runID         uuid.UUID
	stats         models.PlayerStats
	inventory     models.Inventory
	history       models.HistoryLog
	suggestions   []models.Action
	image         *models.SceneImage
	turnInFlight  bool
	imagesPending int
	hintLoading   bool
	activeHint    string

	images  sync.WaitGroup
	changes chan struct{}
}

// NewOrchestrator creates an orchestrator sitting at the intro screen.
func NewOrchestrator(oracle Oracle, msgs Messages, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		oracle:    oracle,
		msgs:      msgs,
		logger:    logger,
		phase:     models.PhaseIntro,
		stats:     models.InitialStats(),
		inventory: models.Inventory{},
		changes:   make(chan struct{}, 1),
	}
}

// Changes signals, coalesced, that the snapshot has changed.
func (o *Orchestrator) Changes() <-chan struct{} {
	return o.changes
}

func (o *Orchestrator) notify() {
	select {
	case o.changes <- struct{}{}:
	default:
	}
}

// Wait blocks until every detached image request has resolved.
func (o *Orchestrator) Wait() {
	o.images.Wait()
}

// StartGame resets the run and asks the oracle for the opening scene. On
// failure the phase becomes ERROR and the freshly reset state is kept.
func (o *Orchestrator) StartGame(ctx context.Context) error {
	o.mu.Lock()
	if o.turnInFlight {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	o.runID = uuid.New()
	o.stats = models.InitialStats()
	o.inventory = models.Inventory{}
	o.history.Reset()
	o.suggestions = nil
	o.hintLoading = false
	o.activeHint = ""
	o.phase = models.PhaseLoading
	o.turnInFlight = true
	runID := o.runID
	o.mu.Unlock()
	o.notify()

	log := logger.WithRunID(o.logger, runID.String())
	log.Info("Starting new game")

	resp, err := o.oracle.StartGame(ctx)

	o.mu.Lock()
	defer o.notify()
	defer o.mu.Unlock()
	o.turnInFlight = false

	if err != nil {
		o.phase = models.PhaseError
		log.Error("Failed to start game", "error", err)
		return fmt.Errorf("start game: %w", err)
	}

	o.history.Append(models.Message{Role: models.RoleModel, Content: resp.Narrative})
	o.phase = models.PhasePlaying
	o.applyLocked(resp, log)
	if resp.SceneDescription != "" {
		o.refreshSceneLocked(ctx, resp.SceneDescription, true)
	}
	return nil
}

// SubmitAction plays one turn. It returns false when the action was dropped:
// blank text, a turn already in flight, or a phase other than PLAYING.
// Oracle failures are absorbed into a fallback narrative entry.
func (o *Orchestrator) SubmitAction(ctx context.Context, action string) bool {
	if strings.TrimSpace(action) == "" {
		return false
	}

	o.mu.Lock()
	if o.turnInFlight || o.phase != models.PhasePlaying {
		o.mu.Unlock()
		return false
	}
	o.history.Append(models.Message{Role: models.RoleUser, Content: action})
	o.suggestions = nil
	o.turnInFlight = true
	req := TurnRequest{
		History:   o.history.Recent(TurnWindow),
		Stats:     o.stats,
		Inventory: o.inventory.Clone(),
		Action:    action,
	}
	log := logger.WithRunID(o.logger, o.runID.String())
	o.mu.Unlock()
	o.notify()

	resp, err := o.oracle.AdvanceTurn(ctx, req)

	o.mu.Lock()
	defer o.notify()
	defer o.mu.Unlock()
	o.turnInFlight = false

	if err != nil {
		log.Warn("Turn failed, using fallback narrative", "error", err)
		o.history.Append(models.Message{Role: models.RoleModel, Content: o.msgs.TurnFailure})
		return true
	}

	o.history.Append(models.Message{Role: models.RoleModel, Content: resp.Narrative})
	o.applyLocked(resp, log)
	if resp.SceneDescription != "" {
		o.refreshSceneLocked(ctx, resp.SceneDescription, false)
	}
	return true
}

func (o *Orchestrator) applyLocked(resp models.TurnResponse, log *slog.Logger) {
	out := Apply(o.stats, o.inventory, resp)
	o.stats = out.Stats
	o.inventory = out.Inventory
	o.suggestions = out.Suggestions
	if out.GameOver {
		o.phase = models.PhaseGameOver
		log.Info("Game over", "health", out.Stats.Health, "stability", out.Stats.Stability, "level", out.Stats.Level)
	}
	log.Debug("Turn applied",
		"health", out.Stats.Health,
		"stability", out.Stats.Stability,
		"fragments", out.Stats.Fragments,
		"level", out.Stats.Level,
		"inventory", len(out.Inventory),
		"suggestions", len(out.Suggestions))
}

// refreshSceneLocked fires a detached image request. Requests are never
// cancelled; the last one to resolve owns the image slot. When replaceOnEmpty
// is false a nil result keeps the previous image.
func (o *Orchestrator) refreshSceneLocked(ctx context.Context, description string, replaceOnEmpty bool) {
	o.imagesPending++
	o.images.Add(1)
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer o.images.Done()

		img, err := o.oracle.GenerateImage(ctx, description)
		if err != nil {
			o.logger.Debug("Scene image unavailable", "error", err)
			img = nil
		}

		o.mu.Lock()
		o.imagesPending--
		if img != nil || replaceOnEmpty {
			o.image = img
		}
		o.mu.Unlock()
		o.notify()
	}()
}

// RequestHint spends HintCost stability and asks the oracle for a hint. It
// returns false when nothing was dispatched. With too little stability the
// low-stability warning is shown instead and nothing is spent.
func (o *Orchestrator) RequestHint(ctx context.Context) bool {
	o.mu.Lock()
	if o.phase != models.PhasePlaying {
		o.mu.Unlock()
		return false
	}
	if o.hintLoading || o.activeHint != "" || o.stats.Stability < HintCost {
		if o.stats.Stability < HintCost {
			o.activeHint = o.msgs.HintLowStability
		}
		o.mu.Unlock()
		o.notify()
		return false
	}
	o.hintLoading = true
	o.stats.Stability -= HintCost
	history := o.history.Recent(HintWindow)
	runID := o.runID
	o.mu.Unlock()
	o.notify()

	hint, err := o.oracle.GenerateHint(ctx, history)

	o.mu.Lock()
	defer o.notify()
	defer o.mu.Unlock()
	if o.runID != runID {
		// A new run started while the hint was pending.
		return true
	}
	o.hintLoading = false

	switch {
	case errors.Is(err, ErrEmptyResponse) || (err == nil && strings.TrimSpace(hint) == ""):
		o.activeHint = o.msgs.HintSilent
	case err != nil:
		logger.WithRunID(o.logger, runID.String()).Warn("Hint failed, using fallback", "error", err)
		o.activeHint = o.msgs.HintFailure
	default:
		o.activeHint = strings.TrimSpace(hint)
	}
	return true
}

// DismissHint hides the displayed hint so a new one can be requested.
func (o *Orchestrator) DismissHint() {
	o.mu.Lock()
	o.activeHint = ""
	o.mu.Unlock()
	o.notify()
}

// ReturnToIntro leaves the game-over or error screen.
func (o *Orchestrator) ReturnToIntro() bool {
	o.mu.Lock()
	if o.phase != models.PhaseGameOver && o.phase != models.PhaseError {
		o.mu.Unlock()
		return false
	}
	o.phase = models.PhaseIntro
	o.mu.Unlock()
	o.notify()
	return true
}
