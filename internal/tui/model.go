// Package tui renders a local table in the terminal: one human seat
// against calling-station opponents, driven by typed commands.
package tui

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/wanlucas/poker-game/internal/deck"
	"github.com/wanlucas/poker-game/internal/game"
)

const humanID = "you"

// Options configures a local table.
type Options struct {
	PlayerName string
	Opponents  int
	SmallBlind int
	Bankroll   int
	RNG        *rand.Rand
}

// Model is the Bubble Tea model for a local game.
type Model struct {
	game   *game.Game
	logger *log.Logger

	logView viewport.Model
	input   textinput.Model

	lines    []string
	errLine  string
	width    int
	height   int
	quitting bool
}

// New builds a model and seats the table. The game starts on the first
// rendered frame.
func New(opts Options, logger *log.Logger) (*Model, error) {
	if opts.Opponents < 1 {
		return nil, fmt.Errorf("need at least 1 opponent, got %d", opts.Opponents)
	}

	vp := viewport.New(60, 8)
	ti := textinput.New()
	ti.Placeholder = "check, call, raise <amount>, fold"
	ti.Focus()
	ti.CharLimit = 40
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	m := &Model{
		logger:  logger.WithPrefix("tui"),
		logView: vp,
		input:   ti,
	}

	gameOpts := []game.GameOption{
		game.OnRoundEnd(m.recordShowdown),
	}
	if opts.SmallBlind > 0 {
		gameOpts = append(gameOpts, game.WithSmallBlind(opts.SmallBlind))
	}
	if opts.Bankroll > 0 {
		gameOpts = append(gameOpts, game.WithInitialBankroll(opts.Bankroll))
	}
	if opts.RNG != nil {
		gameOpts = append(gameOpts, game.WithGameRNG(opts.RNG))
	}

	m.game = game.New(gameOpts...)

	name := opts.PlayerName
	if name == "" {
		name = "You"
	}
	m.game.AddPlayer(humanID, name)
	for i := 1; i <= opts.Opponents; i++ {
		m.game.AddPlayer(fmt.Sprintf("cpu%d", i), fmt.Sprintf("CPU %d", i))
	}

	if err := m.game.Start(); err != nil {
		return nil, err
	}
	m.addLine("New round. Blinds posted.")
	m.playOpponents()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		if h := msg.Height - 14; h > 3 {
			m.logView.Height = h
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			m.submit(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logView, cmd = m.logView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit applies one typed command for the human seat, then lets the
// opponents respond.
func (m *Model) submit(line string) {
	m.errLine = ""
	if line == "" {
		return
	}
	if line == "quit" || line == "q" {
		m.quitting = true
		return
	}

	kind, value, err := parseCommand(line)
	if err != nil {
		m.errLine = err.Error()
		return
	}

	if err := m.game.Action(humanID, kind, value); err != nil {
		m.errLine = err.Error()
		return
	}

	if value > 0 {
		m.addLine(fmt.Sprintf("You %s to %d.", kind, value))
	} else {
		m.addLine(fmt.Sprintf("You %s.", kind))
	}
	m.playOpponents()
}

// parseCommand turns a typed line into a betting action.
func parseCommand(line string) (game.ActionKind, int, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return "", 0, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "check", "k":
		return game.ActionCheck, 0, nil
	case "call", "c":
		return game.ActionCall, 0, nil
	case "fold", "f":
		return game.ActionFold, 0, nil
	case "raise", "r", "bet", "b":
		if len(fields) < 2 {
			return "", 0, fmt.Errorf("raise needs an amount, e.g. %q", "raise 20")
		}
		value, err := strconv.Atoi(fields[1])
		if err != nil || value <= 0 {
			return "", 0, fmt.Errorf("invalid raise amount %q", fields[1])
		}
		return game.ActionRaise, value, nil
	default:
		return "", 0, fmt.Errorf("unknown command %q", fields[0])
	}
}

// playOpponents lets the machine seats act until the human is up again.
// They play as calling stations: check when free, call when facing a bet.
func (m *Model) playOpponents() {
	for i := 0; i < 200; i++ {
		current := m.game.CurrentPlayer()
		if current == nil || current.ID == humanID {
			return
		}

		if err := m.game.Action(current.ID, game.ActionCheck, 0); err == nil {
			m.addLine(fmt.Sprintf("%s checks.", current.Name))
			continue
		}
		if err := m.game.Action(current.ID, game.ActionCall, 0); err == nil {
			m.addLine(fmt.Sprintf("%s calls.", current.Name))
			continue
		}
		if err := m.game.Action(current.ID, game.ActionFold, 0); err != nil {
			m.logger.Error("opponent has no legal action", "player", current.ID, "error", err)
			return
		}
		m.addLine(fmt.Sprintf("%s folds.", current.Name))
	}
}

// recordShowdown runs inside the engine's round-end callback.
func (m *Model) recordShowdown(result game.ShowdownResult) {
	names := make([]string, len(result.Winners))
	for i, w := range result.Winners {
		names[i] = w.Name
		if evaluated, ok := result.Hands[w.ID]; ok {
			names[i] += " (" + evaluated.Ranking.String() + ")"
		}
	}
	m.addLine(fmt.Sprintf("Pot of %d goes to %s.", result.Pot, strings.Join(names, ", ")))
	m.addLine("New round. Blinds posted.")
}

func (m *Model) addLine(line string) {
	m.lines = append(m.lines, line)
	m.logView.SetContent(strings.Join(m.lines, "\n"))
	m.logView.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(" Texas Hold'em ") + "\n\n")

	if stage := m.game.CurrentStage(); stage != nil {
		b.WriteString(fmt.Sprintf("Street: %s   ", stage.Street()))
	}
	b.WriteString(potStyle.Render(fmt.Sprintf("Pot: %d", m.game.Pot())) + "\n")
	b.WriteString("Board: " + renderCards(m.game.Community()) + "\n")

	if human := m.game.Player(humanID); human != nil {
		b.WriteString("Hand:  " + renderCards(human.Hole()) + "\n")
	}
	b.WriteString("\n")

	current := m.game.CurrentPlayer()
	for _, p := range m.game.Players() {
		line := fmt.Sprintf("%-10s %5d chips  bet %d", p.Name, p.Bankroll, p.CurrentBet)
		switch {
		case p.Folded:
			line = foldedStyle.Render(line)
		case current != nil && p.ID == current.ID:
			line = turnStyle.Render(line + "  ← to act")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.logView.View() + "\n")
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine) + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(infoStyle.Render("enter to act · esc to quit"))
	return b.String()
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return infoStyle.Render("--")
	}

	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = redCardStyle.Render(c.String())
		} else {
			parts[i] = blackCardStyle.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}
