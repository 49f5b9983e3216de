// Package scenario holds the world content that is fed to the Narrative
// Oracle: lore, game master rules, hint persona and the fixed in-character
// fallback messages.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed aeterna.yaml
var defaultScenario []byte

// Scenario is the authored content of a game world.
type Scenario struct {
	Title              string   `yaml:"title"`
	ShortName          string   `yaml:"short_name"`
	Lore               string   `yaml:"lore"`
	GameMasterPrompt   string   `yaml:"game_master_prompt"` // template over Lore
	HintPrompt         string   `yaml:"hint_prompt"`
	OpeningInstruction string   `yaml:"opening_instruction"`
	ImageStyle         string   `yaml:"image_style"`
	Messages           Messages `yaml:"messages"`
}

// Messages are the fixed texts shown instead of technical errors.
type Messages struct {
	TurnFailure      string `yaml:"turn_failure"`
	HintLowStability string `yaml:"hint_low_stability"`
	HintFailure      string `yaml:"hint_failure"`
	HintSilent       string `yaml:"hint_silent"`
}

// Default returns the embedded Aeterna scenario.
func Default() (*Scenario, error) {
	return Parse(defaultScenario)
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports every missing text field at once.
func (s *Scenario) Validate() error {
	var errs []error
	required := []struct {
		name, value string
	}{
		{"title", s.Title},
		{"lore", s.Lore},
		{"game_master_prompt", s.GameMasterPrompt},
		{"hint_prompt", s.HintPrompt},
		{"opening_instruction", s.OpeningInstruction},
		{"messages.turn_failure", s.Messages.TurnFailure},
		{"messages.hint_low_stability", s.Messages.HintLowStability},
		{"messages.hint_failure", s.Messages.HintFailure},
		{"messages.hint_silent", s.Messages.HintSilent},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("scenario: %s is required", f.name))
		}
	}
	return errors.Join(errs...)
}

// SystemPrompt renders the game master prompt with the lore filled in.
func (s *Scenario) SystemPrompt() (string, error) {
	tmpl, err := template.New("game_master").Parse(s.GameMasterPrompt)
	if err != nil {
		return "", fmt.Errorf("parse game master prompt: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("render game master prompt: %w", err)
	}
	return buf.String(), nil
}
