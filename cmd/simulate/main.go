// Command simulate plays Aeterna headlessly: a second Gemini model acts as
// the player and drives the orchestrator for a fixed number of turns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/aeterna/internal/config"
	"github.com/tatianab/aeterna/internal/engine"
	"github.com/tatianab/aeterna/internal/game"
	"github.com/tatianab/aeterna/internal/logger"
	"github.com/tatianab/aeterna/internal/models"
	"github.com/tatianab/aeterna/internal/scenario"
	"google.golang.org/api/option"
)

func main() {
	maxTurns := flag.Int("turns", 10, "number of turns to play")
	hintEvery := flag.Int("hint-every", 0, "request a hint every N turns (0 disables)")
	playerModelName := flag.String("player-model", "gemini-2.5-flash", "model that plays the game")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	slogger := logger.Setup(cfg, os.Stderr)

	scn, err := scenario.Default()
	if cfg.ScenarioFile != "" {
		scn, err = scenario.Load(cfg.ScenarioFile)
	}
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	// Initialize the Game Master
	gm, err := engine.NewEngine(ctx, engine.Options{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		Scenario:   scn,
		Logger:     slogger,
	})
	if err != nil {
		log.Fatalf("Failed to create GM engine: %v", err)
	}
	defer gm.Close()

	// Initialize the Player LLM
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(*playerModelName)

	orch := game.NewOrchestrator(gm, game.Messages(scn.Messages), slogger)
	defer orch.Wait()

	fmt.Printf("--- %s ---\n", scn.Title)
	if err := orch.StartGame(ctx); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	printTurn(orch.Snapshot())

	for turn := 1; turn <= *maxTurns; turn++ {
		snap := orch.Snapshot()
		if snap.Phase != models.PhasePlaying {
			break
		}

		if *hintEvery > 0 && turn%*hintEvery == 0 {
			orch.RequestHint(ctx)
			fmt.Printf("Oracle whispers: %s\n", orch.Snapshot().ActiveHint)
			orch.DismissHint()
		}

		fmt.Printf("--- Turn %d ---\n", turn)
		action := getPlayerAction(ctx, playerModel, snap)
		fmt.Printf("Player Action: %s\n", action)

		orch.SubmitAction(ctx, action)
		printTurn(orch.Snapshot())
	}

	if orch.Snapshot().Phase == models.PhaseGameOver {
		fmt.Println("Game Ended: the rift has claimed the player.")
	}
}

func printTurn(snap game.Snapshot) {
	st := snap.Stats
	fmt.Printf("GM: %s\n", snap.LastNarrative())
	fmt.Printf("Stats: Health=%d/%d, Stability=%d/%d, Fragments=%d, Level=%d\n",
		st.Health, st.MaxHealth, st.Stability, st.MaxStability, st.Fragments, st.Level)
	fmt.Printf("Inventory: %v\n\n", []string(snap.Inventory))
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, snap game.Snapshot) string {
	var options strings.Builder
	for _, a := range snap.Suggestions {
		fmt.Fprintf(&options, "- %s (%s)\n", a.Label, a.Type)
	}

	prompt := fmt.Sprintf(`You are playing a text-based adventure game written in Spanish.
Last narration:
%s

Health: %d/%d, Stability: %d/%d, Inventory: %v

Suggested actions:
%s
Pick one of the suggested actions or invent a better one. Answer in Spanish. Return ONLY the action string, no extra commentary.`,
		snap.LastNarrative(),
		snap.Stats.Health, snap.Stats.MaxHealth,
		snap.Stats.Stability, snap.Stats.MaxStability,
		[]string(snap.Inventory),
		options.String(),
	)

	fallback := "Mirar alrededor"
	if len(snap.Suggestions) > 0 {
		fallback = snap.Suggestions[0].Label
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fallback
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fallback
	}
	action := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if action == "" {
		return fallback
	}
	return action
}
