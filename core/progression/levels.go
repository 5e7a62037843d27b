// Package progression derives learner levels and rank titles from XP and
// keeps the stored level/rank of a profile in sync with its XP total.
package progression

import "sort"

// Level is one tier of the progression ladder.
type Level struct {
	Number     int    `json:"level"`
	XPRequired int    `json:"xp_required"`
	RankTitle  string `json:"rank_title"`
}

// baseLevel is the tier every profile starts at; it is also the fallback when
// the configured ladder is empty or starts above 0 XP.
var baseLevel = Level{Number: 1, XPRequired: 0, RankTitle: "آموزنده تازه‌کار"}

// DefaultLevels is the product's five-tier ladder.
func DefaultLevels() []Level {
	return []Level{
		baseLevel,
		{Number: 2, XPRequired: 100, RankTitle: "ابزارشناس"},
		{Number: 3, XPRequired: 250, RankTitle: "مهارت‌جوی حرفه‌ای"},
		{Number: 4, XPRequired: 500, RankTitle: "استاد نرم‌افزار"},
		{Number: 5, XPRequired: 1000, RankTitle: "افسانه دیجیتال"},
	}
}

// Resolver maps an XP total to the highest qualifying Level.
type Resolver struct {
	levels []Level
}

// NewResolver builds a Resolver from the given ladder (DefaultLevels when
// none is given). Tiers are ordered by XP requirement.
func NewResolver(levels ...Level) *Resolver {
	if levels == nil {
		levels = DefaultLevels()
	}
	sorted := make([]Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].XPRequired < sorted[j].XPRequired })
	return &Resolver{levels: sorted}
}

// Base returns the tier new profiles start at.
func (r *Resolver) Base() Level {
	for _, lvl := range r.levels {
		if lvl.XPRequired <= 0 {
			return lvl
		}
	}
	return baseLevel
}

// Resolve returns the level number and rank title of the last tier whose XP
// requirement is at or below xp. It is total over all inputs: XP beyond the
// top tier maps to the top tier, and an empty (or all-unreachable) ladder
// maps to the base tier.
func (r *Resolver) Resolve(xp int) (int, string) {
	if xp < 0 {
		xp = 0
	}
	current := r.Base()
	for _, lvl := range r.levels {
		if lvl.XPRequired > xp {
			break
		}
		current = lvl
	}
	return current.Number, current.RankTitle
}

// Levels returns a copy of the ladder, lowest tier first.
func (r *Resolver) Levels() []Level {
	out := make([]Level, len(r.levels))
	copy(out, r.levels)
	return out
}
