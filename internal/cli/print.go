package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/data"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/market"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/fatih/color"
)

var (
	title = color.New(color.FgCyan, color.Bold)
	good  = color.New(color.FgGreen)
	warn  = color.New(color.FgYellow)
	faint = color.New(color.Faint)
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printWritten(w io.Writer, paths ...string) {
	for _, p := range paths {
		faint.Fprintf(w, "wrote %s\n", p)
	}
}

func printLoadReport(w io.Writer, rep *data.LoadReport) {
	if rep == nil {
		return
	}
	if rep.Created > 0 {
		faint.Fprintf(w, "%d players created from non-projection sources\n", rep.Created)
	}
	for _, f := range rep.Fuzzy {
		if f.TeamMismatch {
			warn.Fprintf(w, "team mismatch (%s line %d): %q -> %s (distance %d)\n", f.Kind, f.Line, f.Name, f.PlayerID, f.Distance)
			continue
		}
		warn.Fprintf(w, "fuzzy match (%s line %d): %q -> %s (distance %d)\n", f.Kind, f.Line, f.Name, f.PlayerID, f.Distance)
	}
	if n := len(rep.Unresolved); n > 0 {
		warn.Fprintf(w, "%d rows could not be matched to a player:\n", n)
		for _, u := range rep.Unresolved {
			warn.Fprintf(w, "  %s line %d: %s (%s)\n", u.Kind, u.Line, u.Name, u.Reason)
		}
	}
}

func printMarket(w io.Writer, players []model.Player, pos model.Position, n int) {
	label := "all positions"
	if pos != "" {
		label = string(pos)
	}
	title.Fprintf(w, "Market (%d players, %s)\n", len(players), label)

	tw := table(w)
	fmt.Fprintln(tw, "#\tPLAYER\tTEAM\tPOS\tVALUE\tPRICE")
	for i, p := range market.Top(players, pos, n) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\t$%.0f\n", i+1, p.Name, p.Team, p.Position, p.Consensus, p.Price)
	}
	tw.Flush()
}

func printRoster(w io.Writer, a *model.RosterAssignment) {
	title.Fprintf(w, "Roster (%s)\n", a.Optimizer)

	tw := table(w)
	fmt.Fprintln(tw, "SLOT\tPLAYER\tTEAM\tPOS\tVALUE\tPAY")
	for _, p := range a.Picks {
		fmt.Fprintf(tw, "%s%d\t%s\t%s\t%s\t%.1f\t$%.0f\n",
			p.Slot, p.Seat, p.Player.Name, p.Player.Team, p.Player.Position, p.Player.Consensus, p.Amount)
	}
	tw.Flush()

	good.Fprintf(w, "value %.1f, spent $%.0f of $%.0f, $%.0f left\n", a.TotalValue, a.Spent, a.Budget, a.Remaining)
}

func printScenarios(w io.Writer, res *scenario.Result, top int) {
	s := res.Summary
	title.Fprintf(w, "Scenarios (%d, %s, %s, seed %d)\n", len(res.Scenarios), res.Optimizer, res.Params.Mode, res.Seed)
	fmt.Fprintf(w, "total value  mean %.1f  sd %.1f  p05 %.1f  p95 %.1f\n",
		s.TotalValue.Mean, s.TotalValue.StdDev, s.TotalValue.P05, s.TotalValue.P95)
	fmt.Fprintf(w, "base value   mean %.1f\n", s.MeanBaseValue)
	fmt.Fprintf(w, "spent        mean $%.1f\n", s.MeanSpent)

	tw := table(w)
	fmt.Fprintln(tw, "PLAYER\tPOS\tPICKED\tRATE")
	for i, f := range s.Frequency {
		if i == top {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f%%\n", f.Name, f.Position, f.Count, f.Rate*100)
	}
	tw.Flush()
}

func printFetched(w io.Writer, rows []data.Projection) {
	byPos := map[model.Position]int{}
	for _, r := range rows {
		byPos[r.Pos]++
	}
	var parts []string
	for _, pos := range model.AllPositions {
		if n := byPos[pos]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", pos, n))
		}
	}
	good.Fprintf(w, "fetched %d projections (%s)\n", len(rows), strings.Join(parts, ", "))
}

func printPresets(w io.Writer) error {
	title.Fprintln(w, "Roster presets")
	presets := model.Presets()
	for _, name := range model.PresetNames() {
		var slots []string
		for _, s := range presets[name] {
			slots = append(slots, fmt.Sprintf("%dx%s", s.Count, s.Name))
		}
		fmt.Fprintf(w, "  %-15s %s\n", name, strings.Join(slots, " "))
	}

	title.Fprintln(w, "Scenario presets")
	for _, name := range scenario.PresetNames() {
		p, err := scenario.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-15s n=%d stddev=%.2f mode=%s\n", name, p.NumScenarios, p.Stddev, p.Mode)
	}
	return nil
}
