package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// GameLogEntry is one completed game's box-score line for a player
type GameLogEntry struct {
	Date             time.Time `json:"date" validate:"required"`
	Opponent         string    `json:"opponent"`
	IsHome           bool      `json:"is_home"`
	Won              bool      `json:"won"`
	Minutes          float64   `json:"minutes" validate:"gte=0"`
	Points           float64   `json:"points"`
	Rebounds         float64   `json:"rebounds"`
	Assists          float64   `json:"assists"`
	Steals           float64   `json:"steals"`
	Blocks           float64   `json:"blocks"`
	Turnovers        float64   `json:"turnovers"`
	FGMade           float64   `json:"fg_made"`
	FGAttempted      float64   `json:"fg_attempted"`
	ThreePtMade      float64   `json:"three_pt_made"`
	ThreePtAttempted float64   `json:"three_pt_attempted"`
	FTMade           float64   `json:"ft_made"`
	FTAttempted      float64   `json:"ft_attempted"`
	PlusMinus        float64   `json:"plus_minus"`
}

// Played reports whether the player logged court time in the game
func (g GameLogEntry) Played() bool {
	return g.Minutes > 0
}

// StatType names a projectable statistic of a GameLogEntry
type StatType string

// Supported stat types
const (
	StatPoints             StatType = "points"
	StatRebounds           StatType = "rebounds"
	StatAssists            StatType = "assists"
	StatSteals             StatType = "steals"
	StatBlocks             StatType = "blocks"
	StatTurnovers          StatType = "turnovers"
	StatThreePtMade        StatType = "three_pt_made"
	StatFGMade             StatType = "fg_made"
	StatFGAttempted        StatType = "fg_attempted"
	StatFTMade             StatType = "ft_made"
	StatPlusMinus          StatType = "plus_minus"
	StatPointsReboundsAsts StatType = "pra"
	StatPointsRebounds     StatType = "pr"
	StatPointsAssists      StatType = "pa"
	StatReboundsAssists    StatType = "ra"
)

// StatAccessor extracts a numeric stat from a game
type StatAccessor func(GameLogEntry) float64

var statAccessors = map[StatType]StatAccessor{
	StatPoints:      func(g GameLogEntry) float64 { return g.Points },
	StatRebounds:    func(g GameLogEntry) float64 { return g.Rebounds },
	StatAssists:     func(g GameLogEntry) float64 { return g.Assists },
	StatSteals:      func(g GameLogEntry) float64 { return g.Steals },
	StatBlocks:      func(g GameLogEntry) float64 { return g.Blocks },
	StatTurnovers:   func(g GameLogEntry) float64 { return g.Turnovers },
	StatThreePtMade: func(g GameLogEntry) float64 { return g.ThreePtMade },
	StatFGMade:      func(g GameLogEntry) float64 { return g.FGMade },
	StatFGAttempted: func(g GameLogEntry) float64 { return g.FGAttempted },
	StatFTMade:      func(g GameLogEntry) float64 { return g.FTMade },
	StatPlusMinus:   func(g GameLogEntry) float64 { return g.PlusMinus },
	StatPointsReboundsAsts: func(g GameLogEntry) float64 {
		return g.Points + g.Rebounds + g.Assists
	},
	StatPointsRebounds:  func(g GameLogEntry) float64 { return g.Points + g.Rebounds },
	StatPointsAssists:   func(g GameLogEntry) float64 { return g.Points + g.Assists },
	StatReboundsAssists: func(g GameLogEntry) float64 { return g.Rebounds + g.Assists },
}

// ParseStatType resolves a stat name, accepting a few common aliases
func ParseStatType(name string) (StatType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "pts":
		normalized = string(StatPoints)
	case "reb", "rebs":
		normalized = string(StatRebounds)
	case "ast", "asts":
		normalized = string(StatAssists)
	case "threes", "3pm", "fg3m":
		normalized = string(StatThreePtMade)
	}
	st := StatType(normalized)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatType, name)
	}
	return st, nil
}

// Valid reports whether the stat type has a registered accessor
func (s StatType) Valid() bool {
	_, ok := statAccessors[s]
	return ok
}

// Accessor returns the registered accessor, or nil for unknown stats
func (s StatType) Accessor() StatAccessor {
	return statAccessors[s]
}

// Value extracts the stat from a game. Unknown stats yield zero.
func (s StatType) Value(g GameLogEntry) float64 {
	accessor, ok := statAccessors[s]
	if !ok {
		return 0
	}
	return accessor(g)
}

// Values extracts the stat from each game, preserving order
func (s StatType) Values(games []GameLogEntry) []float64 {
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = s.Value(g)
	}
	return values
}

// SupportedStatTypes lists every registered stat type in sorted order
func SupportedStatTypes() []StatType {
	types := make([]StatType, 0, len(statAccessors))
	for st := range statAccessors {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// SortMostRecentFirst returns a copy of the log ordered by descending date.
// Games sharing a date keep their relative order.
func SortMostRecentFirst(games []GameLogEntry) []GameLogEntry {
	sorted := append([]GameLogEntry(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// IsMostRecentFirst reports whether the log is already in descending date order
func IsMostRecentFirst(games []GameLogEntry) bool {
	for i := 1; i < len(games); i++ {
		if games[i].Date.After(games[i-1].Date) {
			return false
		}
	}
	return true
}
