package match

import (
	"fmt"

	"matchtracker/internal/catalog"
)

// MatchupStats summarizes results against one opposing deck.
type MatchupStats struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"winRate"`
}

// DeckStats summarizes results for one of the player's deck combinations,
// including the per-opponent matchup breakdown.
type DeckStats struct {
	Total    int                     `json:"total"`
	Wins     int                     `json:"wins"`
	Losses   int                     `json:"losses"`
	Draws    int                     `json:"draws"`
	WinRate  float64                 `json:"winRate"`
	Matchups map[string]MatchupStats `json:"matchups"`
}

// Stats aggregates a match collection for display.
type Stats struct {
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"winRate"`

	FirstTurnGames   int `json:"firstTurnGames"`
	SecondTurnGames  int `json:"secondTurnGames"`
	FirstTurnWins    int `json:"firstTurnWins"`
	FirstTurnLosses  int `json:"firstTurnLosses"`
	SecondTurnWins   int `json:"secondTurnWins"`
	SecondTurnLosses int `json:"secondTurnLosses"`

	MyDeckCounts       map[string]int       `json:"myDeckCounts"`
	OpponentDeckCounts map[string]int       `json:"opponentDeckCounts"`
	MyDeckStats        map[string]DeckStats `json:"myDeckStats"`

	PointsSeries []PointsProgression `json:"pointsSeries"`
}

// DeckDisplayName renders a deck as "Primary | Secondary" using catalog
// display names. Variant cards are not part of the display name. An empty
// primary yields an empty name.
func DeckDisplayName(deck *DeckSelection, cards *catalog.Catalog) string {
	if deck == nil || deck.Primary == nil {
		return ""
	}
	name := cards.DisplayName(*deck.Primary)
	if deck.Secondary != nil {
		name = fmt.Sprintf("%s | %s", name, cards.DisplayName(*deck.Secondary))
	}
	return name
}

// CalculateStats aggregates match statistics for a collection. Win rates
// are percentages rounded to two decimals, matching the display layer.
func CalculateStats(records []Record, cards *catalog.Catalog) Stats {
	s := Stats{
		TotalGames:         len(records),
		MyDeckCounts:       make(map[string]int),
		OpponentDeckCounts: make(map[string]int),
		MyDeckStats:        make(map[string]DeckStats),
		PointsSeries:       PointsSeries(records),
	}

	for _, r := range records {
		switch r.Result {
		case ResultVictory:
			s.Wins++
		case ResultDefeat:
			s.Losses++
		case ResultDraw:
			s.Draws++
		}

		switch TurnOrder(r.TurnOrder) {
		case TurnFirst:
			s.FirstTurnGames++
			if r.Result == ResultVictory {
				s.FirstTurnWins++
			}
			if r.Result == ResultDefeat {
				s.FirstTurnLosses++
			}
		case TurnSecond:
			s.SecondTurnGames++
			if r.Result == ResultVictory {
				s.SecondTurnWins++
			}
			if r.Result == ResultDefeat {
				s.SecondTurnLosses++
			}
		}

		s.MyDeckCounts[DeckDisplayName(r.YourDeck, cards)]++
		s.OpponentDeckCounts[DeckDisplayName(r.OpponentDeck, cards)]++
	}

	if s.TotalGames > 0 {
		s.WinRate = roundRate(s.Wins, s.TotalGames)
	}

	for deckName := range s.MyDeckCounts {
		ds := DeckStats{Matchups: make(map[string]MatchupStats)}
		for _, r := range records {
			if DeckDisplayName(r.YourDeck, cards) != deckName {
				continue
			}
			ds.Total++
			opponent := DeckDisplayName(r.OpponentDeck, cards)
			mu := ds.Matchups[opponent]
			mu.Total++
			switch r.Result {
			case ResultVictory:
				ds.Wins++
				mu.Wins++
			case ResultDefeat:
				ds.Losses++
				mu.Losses++
			case ResultDraw:
				ds.Draws++
				mu.Draws++
			}
			ds.Matchups[opponent] = mu
		}
		for opponent, mu := range ds.Matchups {
			mu.WinRate = roundRate(mu.Wins, mu.Total)
			ds.Matchups[opponent] = mu
		}
		ds.WinRate = roundRate(ds.Wins, ds.Total)
		s.MyDeckStats[deckName] = ds
	}

	return s
}

// roundRate returns wins/total as a percentage with two-decimal precision.
func roundRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(wins) / float64(total) * 100
	return float64(int(rate*100+0.5)) / 100
}
