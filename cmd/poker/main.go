package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/wanlucas/poker-game/internal/tui"
)

type CLI struct {
	Name       string `help:"Your name at the table" default:"You"`
	Opponents  int    `short:"o" help:"Number of machine opponents" default:"2"`
	SmallBlind int    `short:"s" help:"Small blind size" default:"5"`
	Bankroll   int    `short:"b" help:"Starting bankroll per player" default:"200"`
	Seed       *int64 `help:"Random seed for a reproducible deck"`
	Debug      bool   `help:"Write debug logs to poker.log"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	// Degrade colors to what the terminal actually supports.
	lipgloss.SetColorProfile(termenv.ColorProfile())

	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	if cli.Debug {
		debugFile, err := os.OpenFile("poker.log", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
		if err != nil {
			log.Fatal("Failed to create debug log", "error", err)
		}
		defer debugFile.Close()
		logger = log.New(debugFile)
		logger.SetLevel(log.DebugLevel)
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	model, err := tui.New(tui.Options{
		PlayerName: cli.Name,
		Opponents:  cli.Opponents,
		SmallBlind: cli.SmallBlind,
		Bankroll:   cli.Bankroll,
		RNG:        rand.New(rand.NewSource(seed)),
	}, logger)
	if err != nil {
		log.Fatal("Failed to set up the table", "error", err)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal("Game crashed", "error", err)
	}

	ctx.Exit(0)
}
