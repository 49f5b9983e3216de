package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tatianab/aeterna/internal/game"
	"github.com/tatianab/aeterna/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	logShare     = 0.70
	chromeHeight = 8
	barWidth     = 20
)

var upper = cases.Upper(language.Spanish)

type model struct {
	ctx   context.Context
	orch  *game.Orchestrator
	title string

	snap      game.Snapshot
	textInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	width     int
	height    int
	logLen    int
	status    string

	copyText func(string) error
}

type changedMsg struct{}

type startedMsg struct {
	err error
}

type actionDoneMsg struct {
	accepted bool
}

type hintDoneMsg struct{}

type copiedMsg struct {
	err error
}

func NewModel(ctx context.Context, orch *game.Orchestrator, title string) model {
	ti := textinput.New()
	ti.Placeholder = "¿Qué haces?"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B48EAD"))

	return model{
		ctx:       ctx,
		orch:      orch,
		title:     title,
		snap:      orch.Snapshot(),
		textInput: ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		copyText:  clipboard.WriteAll,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForChange())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(3, msg.Height-chromeHeight)
		m.textInput.Width = max(10, m.logWidth()-4)
		m.refresh()
		return m, nil

	case changedMsg:
		m.refresh()
		return m, m.waitForChange()

	case startedMsg:
		m.refresh()
		if msg.err == nil {
			m.status = ""
		}
		return m, nil

	case actionDoneMsg, hintDoneMsg:
		m.refresh()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "No se pudo copiar: " + msg.err.Error()
		} else {
			m.status = "Narración copiada."
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.snap.Phase {
	case models.PhaseIntro:
		if msg.Type == tea.KeyEnter {
			m.status = ""
			return m, m.startGame()
		}
		return m, nil

	case models.PhaseGameOver, models.PhaseError:
		if msg.Type == tea.KeyEnter {
			m.orch.ReturnToIntro()
			m.refresh()
		}
		return m, nil

	case models.PhasePlaying:
		return m.handlePlayingKey(msg)
	}

	return m, nil
}

func (m model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.snap.ActiveHint != "" {
			m.orch.DismissHint()
			m.refresh()
		}
		return m, nil

	case "ctrl+h":
		return m, m.requestHint()

	case "ctrl+y":
		return m, m.copyNarrative()

	case "enter":
		action := strings.TrimSpace(m.textInput.Value())
		if action == "" || m.snap.TurnInFlight {
			return m, nil
		}
		m.textInput.Reset()
		return m, m.submit(action)

	case "1", "2", "3", "4":
		// Digits pick a suggestion only while nothing has been typed.
		if m.textInput.Value() == "" && !m.snap.TurnInFlight {
			i := int(msg.Runes[0] - '1')
			if i < len(m.snap.Suggestions) {
				return m, m.submit(m.snap.Suggestions[i].Label)
			}
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// refresh pulls a new snapshot and keeps the log pinned to the bottom when
// entries were added.
func (m *model) refresh() {
	m.snap = m.orch.Snapshot()
	m.viewport.SetContent(m.renderLog())
	if len(m.snap.History) != m.logLen {
		m.logLen = len(m.snap.History)
		m.viewport.GotoBottom()
	}
}

func (m model) View() string {
	var s string

	switch m.snap.Phase {
	case models.PhaseIntro:
		s = fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render(upper.String(m.title)),
			"El tiempo se ha roto. Reúne los fragmentos antes de que tu mente se quiebre.",
			helpStyle.Render("Pulsa Enter para comenzar · Ctrl+C para salir"),
		)

	case models.PhaseLoading:
		s = fmt.Sprintf("\n  %s Tejiendo el mundo... espera.\n", m.spinner.View())

	case models.PhasePlaying:
		s = m.renderPlaying()

	case models.PhaseGameOver:
		s = lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render("FIN DE LA PARTIDA"),
			"",
			gameStyle.Width(m.logWidth()).Render(wordwrap.String(m.snap.LastNarrative(), m.logWidth())),
			"",
			m.renderStats(),
			helpStyle.Render("Pulsa Enter para volver al inicio."),
		)

	case models.PhaseError:
		s = fmt.Sprintf("\n  %s\n\n%s",
			errorStyle.Render("No se pudo abrir la grieta. Revisa tu conexión."),
			helpStyle.Render("  Pulsa Enter para volver al inicio."))
	}

	if m.status != "" {
		s += "\n" + helpStyle.Render(m.status)
	}
	return "\n" + s + "\n"
}

func (m model) renderPlaying() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderHUD(),
	)

	var prompt string
	if m.snap.TurnInFlight {
		prompt = m.spinner.View() + " El tejido del tiempo se mueve..."
	} else {
		prompt = m.textInput.View()
	}

	parts := []string{m.renderScene(), body}
	if hint := m.renderHint(); hint != "" {
		parts = append(parts, hint)
	}
	parts = append(parts,
		m.renderSuggestions(),
		prompt,
		helpStyle.Render("Enter actuar · 1-4 sugerencia · Ctrl+H pista · Esc cerrar pista · Ctrl+Y copiar · Ctrl+C salir"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderScene() string {
	switch {
	case m.snap.ImageLoading:
		return helpStyle.Render(m.spinner.View() + " Materializando la visión...")
	case m.snap.Image != nil:
		return helpStyle.Render(fmt.Sprintf("Visión: %s, %d KB", m.snap.Image.MIMEType, len(m.snap.Image.Data)/1024))
	default:
		return helpStyle.Render("Sin visión.")
	}
}

func (m model) renderHint() string {
	switch {
	case m.snap.HintLoading:
		return hintStyle.Render(m.spinner.View() + " Consultando al Oráculo...")
	case m.snap.ActiveHint != "":
		return hintStyle.Width(m.logWidth()).Render(wordwrap.String(m.snap.ActiveHint, m.logWidth()-4))
	}
	return ""
}

func (m model) renderSuggestions() string {
	if len(m.snap.Suggestions) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, a := range m.snap.Suggestions {
		if i >= 4 {
			break
		}
		fmt.Fprintf(&sb, "%s ", actionStyle(a.Type).Render(fmt.Sprintf("[%d] %s", i+1, a.Label)))
	}
	return sb.String()
}

func (m model) renderHUD() string {
	inv := "(vacío)"
	if len(m.snap.Inventory) > 0 {
		var sb strings.Builder
		for _, item := range m.snap.Inventory {
			sb.WriteString("- " + item + "\n")
		}
		inv = sb.String()
	}

	content := titleStyle.Render(upper.String("estado")) + "\n" +
		m.renderStats() + "\n" +
		titleStyle.Render(upper.String("inventario")) + "\n" +
		inv

	hudWidth := max(10, m.width-m.logWidth()-2)
	return hudStyle.Width(hudWidth).Height(m.viewport.Height).Render(content)
}

func (m model) renderStats() string {
	st := m.snap.Stats
	return fmt.Sprintf(
		"Salud       %s %d/%d\nEstabilidad %s %d/%d\nNivel %d · Fragmentos %d\n",
		renderBar(st.Health, st.MaxHealth, barWidth, healthColor), st.Health, st.MaxHealth,
		renderBar(st.Stability, st.MaxStability, barWidth, stabilityColor), st.Stability, st.MaxStability,
		st.Level, st.Fragments,
	)
}

func (m model) renderLog() string {
	width := m.logWidth()
	var sb strings.Builder
	for _, msg := range m.snap.History {
		switch {
		case msg.System || msg.Image != nil:
			continue
		case msg.Role == models.RoleUser:
			sb.WriteString(userStyle.Width(width).Render("> "+msg.Content) + "\n\n")
		default:
			sb.WriteString(gameStyle.Render(wordwrap.String(msg.Content, width)) + "\n\n")
		}
	}
	return sb.String()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * logShare)
}

// waitForChange turns orchestrator notifications into messages. Only the
// changedMsg handler re-arms it, so exactly one listener is ever pending.
func (m model) waitForChange() tea.Cmd {
	changes := m.orch.Changes()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m model) startGame() tea.Cmd {
	orch, ctx := m.orch, m.ctx
	return func() tea.Msg {
		return startedMsg{err: orch.StartGame(ctx)}
	}
}

func (m model) submit(action string) tea.Cmd {
	orch, ctx := m.orch, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{accepted: orch.SubmitAction(ctx, action)}
	}
}

func (m model) requestHint() tea.Cmd {
	orch, ctx := m.orch, m.ctx
	return func() tea.Msg {
		orch.RequestHint(ctx)
		return hintDoneMsg{}
	}
}

func (m model) copyNarrative() tea.Cmd {
	text, copyText := m.snap.LastNarrative(), m.copyText
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}

// Run blocks until the player quits.
func Run(ctx context.Context, orch *game.Orchestrator, title string) error {
	p := tea.NewProgram(NewModel(ctx, orch, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
