// Package report renders engine results as console tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/slurve/dugout/internal/engine"
	"github.com/slurve/dugout/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintGamesTable writes one row per game, newest first.
func PrintGamesTable(w io.Writer, games []model.Game) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games match.")
		return
	}
	table := newTable(w)
	table.Header("ID", "DATE", "AWAY", "CAPTAIN", "HOME", "CAPTAIN", "SCORE", "INN", "TAGS")
	for _, g := range games {
		table.Append(
			strconv.FormatInt(g.ID, 10),
			time.Unix(g.Timestamp, 0).UTC().Format("2006-01-02"),
			g.AwayUser,
			g.AwayCaptain,
			g.HomeUser,
			g.HomeCaptain,
			fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore),
			strconv.Itoa(g.InningsPlayed),
			strings.Join(g.Tags, ","),
		)
	}
	table.Render()
}

// PrintProfile writes the per-category totals table followed by each
// category's leaderboards.
func PrintProfile(w io.Writer, p *engine.ProfileResult) {
	fmt.Fprintf(w, "\n=== %s ===\n\n", p.Username)

	totals := newTable(w)
	totals.Header("CATEGORY", "GAMES", "W", "L", "WIN%", "AVG", "OBP", "SLG", "HR", "RBI", "ERA")
	sections := append([]engine.CategoryProfile{}, p.Categories...)
	sections = append(sections, p.All)
	for _, s := range sections {
		totals.Append(
			s.Category,
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Totals.Wins),
			strconv.Itoa(s.Totals.Losses),
			fmt.Sprintf("%.0f%%", s.WinRate*100),
			fmt.Sprintf("%.3f", s.Totals.BattingAverage()),
			fmt.Sprintf("%.3f", s.Totals.OnBasePct()),
			fmt.Sprintf("%.3f", s.Totals.Slugging()),
			strconv.Itoa(s.Totals.Homeruns),
			strconv.Itoa(s.Totals.RBI),
			eraString(s.Totals),
		)
	}
	totals.Render()

	for _, s := range sections {
		if len(s.Captains) == 0 && len(s.Pitchers) == 0 && len(s.Batters) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s leaderboards ---\n\n", s.Category)
		printBoard(w, "captains", s.Captains)
		printBoard(w, "pitchers", s.Pitchers)
		printBoard(w, "batters", s.Batters)
	}
}

func printBoard(w io.Writer, title string, entries []model.RankedEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	table := newTable(w)
	table.Header("NAME", "W", "L", "HR", "AVG", "OBP", "SLG", "RBI", "ERA")
	for _, e := range entries {
		era := "—"
		if e.ERA >= 0 {
			era = fmt.Sprintf("%.2f", e.ERA)
		}
		table.Append(
			e.Name,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.Losses),
			strconv.Itoa(e.Homeruns),
			fmt.Sprintf("%.3f", e.BattingAverage),
			fmt.Sprintf("%.3f", e.OBP),
			fmt.Sprintf("%.3f", e.SLG),
			strconv.Itoa(e.RBI),
			era,
		)
	}
	table.Render()
}

func eraString(s model.Summary) string {
	era := s.ERA()
	if era < 0 {
		// runs allowed without a recorded out
		return "—"
	}
	return fmt.Sprintf("%.2f", era)
}
