package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/wanlucas/poker-game/internal/deck"
	"github.com/wanlucas/poker-game/internal/equity"
	"github.com/wanlucas/poker-game/internal/hand"
)

type CLI struct {
	Hands         []string `arg:"" required:"" help:"Hole cards per player, e.g. 'AcKd' 'QhJs'"`
	Board         string   `short:"b" help:"Community cards already dealt, e.g. 'Td7s8h'"`
	Possibilities bool     `short:"p" help:"Show per-category probabilities"`
	Iterations    int      `short:"i" default:"100000" help:"Number of Monte Carlo iterations"`
	Seed          *int64   `help:"Random seed for reproducible results"`
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	handStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	winStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tieStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	rankingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	hands := make([][]deck.Card, 0, len(cli.Hands))
	for i, s := range cli.Hands {
		cards, err := deck.ParseCards(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing hand %d: %v\n", i+1, err)
			ctx.Exit(1)
		}
		hands = append(hands, cards)
	}

	var board []deck.Card
	if cli.Board != "" {
		var err error
		if board, err = deck.ParseCards(cli.Board); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			ctx.Exit(1)
		}
	}

	start := time.Now()
	odds, err := equity.Compare(context.Background(), hands, board, cli.Iterations, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	elapsed := time.Since(start)

	if len(board) > 0 {
		fmt.Println(headerStyle.Render("board"))
		fmt.Printf("%s\n\n", formatCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"))
	for _, o := range odds {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			handStyle.Render(formatCards(o.Hand)),
			winStyle.Render(fmt.Sprintf("%.1f%%", o.WinPct())),
			tieStyle.Render(fmt.Sprintf("%.1f%%", o.TiePct())))
	}
	w.Flush()

	if cli.Possibilities {
		fmt.Println()
		printPossibilities(odds)
	}

	fmt.Printf("\n%d iterations in %v\n", cli.Iterations, elapsed.Truncate(time.Millisecond))
}

func printPossibilities(odds []equity.Odds) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprint(w, rankingStyle.Render("hand"))
	for _, o := range odds {
		fmt.Fprintf(w, "\t%s", handStyle.Render(formatCards(o.Hand)))
	}
	fmt.Fprintln(w)

	for ranking := hand.RoyalFlush; ranking >= hand.HighCard; ranking-- {
		seen := false
		for _, o := range odds {
			if o.Categories[ranking] > 0 {
				seen = true
				break
			}
		}
		if !seen {
			continue
		}

		fmt.Fprint(w, rankingStyle.Render(ranking.String()))
		for _, o := range odds {
			count := o.Categories[ranking]
			if count == 0 {
				fmt.Fprintf(w, "\t%s", percentStyle.Render("."))
				continue
			}
			pct := float64(count) / float64(o.Samples) * 100
			fmt.Fprintf(w, "\t%s", percentStyle.Render(fmt.Sprintf("%.1f%%", pct)))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
