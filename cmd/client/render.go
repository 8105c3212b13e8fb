package main

import (
	"strings"

	"github.com/pterm/pterm"

	"pokerarena-server/pkg/arena"
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/holdem"
	"pokerarena-server/pkg/poker/scoreboard"
)

// render prints the table with the opponents up top, the board in the
// middle, and the hero's dashboard at the bottom
func render(state *arena.State, playerID string) {
	t := state.Table

	var opponents []pterm.Panel
	var hero pterm.Panel
	for _, p := range t.Players {
		if p.ID == playerID {
			hero = pterm.Panel{Data: playerBox(p, true)}
			continue
		}

		opponents = append(opponents, pterm.Panel{Data: playerBox(p, false)})
	}

	dashboard := []pterm.Panel{hero, {Data: sessionBox(state)}}
	if state.Review != "" {
		dashboard = append(dashboard, pterm.Panel{Data: coachBox(state.Review)})
	}

	_ = pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		opponents,
		{{Data: boardBox(t)}},
		dashboard,
	}).Render()
}

// playerBox formats a single seat
func playerBox(p *holdem.PlayerView, hero bool) string {
	padding := 4
	if hero {
		padding = 10
	}
	box := pterm.DefaultBox.WithHorizontalPadding(padding).WithTopPadding(1).WithBottomPadding(1)

	title := p.Name
	if p.IsDealer {
		title += " (D)"
	}
	if p.IsTurn {
		title = pterm.LightYellow(title)
	}

	var status string
	switch {
	case p.Folded:
		status = pterm.LightRed("Folded")
	case p.AllIn:
		status = pterm.LightMagenta("All-In")
	default:
		status = pterm.LightGreen("Active")
	}

	lines := []string{status}
	if p.Type == holdem.PlayerTypeAI && p.Style != "" {
		lines = append(lines, pterm.Gray(p.Style))
	}

	lines = append(lines,
		pterm.Sprintf("Current Bet: %d", p.CurrentBet),
		pterm.Sprintf("Chips: %d", p.Chips),
		holeCardLine(p.HoleCards),
	)

	if p.HandName != "" {
		lines = append(lines, pterm.LightCyan(p.HandName))
	}
	if p.LastAction != "" {
		lines = append(lines, pterm.Gray(p.LastAction))
	}

	return box.WithTitle(title).WithTitleTopLeft().Sprintf("%s", strings.Join(lines, "\n"))
}

// holeCardLine renders hole cards, face down when they are not visible
func holeCardLine(h deck.Hand) string {
	if len(h) == 0 {
		return pterm.BgGreen.Sprint(" ?  ? ")
	}

	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}

	return pterm.BgGreen.Sprintf(" %s ", strings.Join(parts, " - "))
}

// boardBox formats the community cards, pot, and betting line
func boardBox(t *holdem.TableView) string {
	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	line := ""
	for _, c := range t.Community {
		line += c.String() + " - "
	}
	line += pterm.Sprintf(" Pot: %d | %s ", t.Pot, t.Phase)

	body := pterm.BgGreen.Sprint("\n " + line + "\n")
	if !t.HandOver && t.CurrentBet > 0 {
		body += pterm.Sprintfln("\nBet to match: %d (min raise to %d)", t.CurrentBet, t.MinRaise)
	}

	if t.HandOver && len(t.Winners) > 0 {
		names := make([]string, len(t.Winners))
		for i, id := range t.Winners {
			names[i] = seatName(t, id)
		}
		body += pterm.Sprintfln("\n%s takes the pot of %d", pterm.LightCyan(strings.Join(names, ", ")), t.Pot)
	}

	title := pterm.LightYellow(pterm.Sprintf("|HAND %d|", t.HandNumber))
	return box.WithTitle(title).WithTitleTopCenter().Sprintf("%s", body)
}

// sessionBox formats the running score and the hero's win chance
func sessionBox(state *arena.State) string {
	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	lines := []string{pterm.Sprintf("Hand %d of %d", state.Round, state.MaxRounds)}
	if state.WinChance != nil && !state.Table.HandOver {
		lines = append(lines, pterm.Sprintf("Win chance: %.1f%%", *state.WinChance))
	}

	for _, s := range state.Standings {
		lines = append(lines, pterm.Sprintf("%d. %s  %+d", s.Rank, s.Name, s.Score))
	}

	title := pterm.LightYellow("|SESSION|")
	return box.WithTitle(title).WithTitleTopCenter().Sprintf("%s", strings.Join(lines, "\n"))
}

// coachBox formats the post-hand review
func coachBox(review string) string {
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(1).WithBottomPadding(1)
	title := pterm.LightGreen("|COACH|")
	return box.WithTitle(title).WithTitleTopCenter().Sprintf("%s", review)
}

// renderFinalStandings prints the session result
func renderFinalStandings(standings []*scoreboard.Standing, playerID string) {
	pterm.Println()
	for _, s := range standings {
		line := pterm.Sprintf("%d. %s  %+d", s.Rank, s.Name, s.Score)
		if s.ID == playerID {
			line = pterm.LightCyan(line)
		}
		pterm.Println(line)
	}

	if len(standings) > 0 && standings[0].ID == playerID {
		pterm.Success.Println("You finished on top, Congratulations!")
	} else {
		pterm.Info.Println("Session complete, better luck next time!")
	}
}

// seatName resolves a player id to a display name
func seatName(t *holdem.TableView, id string) string {
	for _, p := range t.Players {
		if p.ID == id {
			return p.Name
		}
	}

	return ""
}
