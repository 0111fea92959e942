package pdfoutline

import "sort"

// AssignLevels sets the outline level of every candidate, in document order.
//
// Distinct font tiers among the candidates are ranked strongest first to give a
// provisional level. Explicit numbering overrides that level. Levels are then capped
// at the profile's MaxLevel and repaired so no level is entered without its parent:
// a candidate claiming a level deeper than one below the open path is demoted to the
// nearest valid level. Candidates are never dropped.
func AssignLevels(candidates []HeadingCandidate, profile *FontProfile) []HeadingCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	tierLevels := rankTiers(candidates)
	maxLevel := profile.MaxLevel
	if maxLevel < 1 {
		maxLevel = 1
	}

	assigned := make([]HeadingCandidate, len(candidates))
	open := 0 // depth of the currently open path
	for i, c := range candidates {
		level := tierLevels[c.Tier]
		if c.Match != nil {
			level = c.Match.Depth
		}

		level = min(level, maxLevel)
		if level > open+1 {
			level = open + 1
		}
		level = max(level, 1)

		c.Level = level
		assigned[i] = c
		open = level
	}

	return assigned
}

// rankTiers maps each occupied tier to its rank, strongest tier first at level 1.
func rankTiers(candidates []HeadingCandidate) map[int]int {
	seen := make(map[int]bool)
	var tiers []int
	for _, c := range candidates {
		if !seen[c.Tier] {
			seen[c.Tier] = true
			tiers = append(tiers, c.Tier)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiers)))

	levels := make(map[int]int, len(tiers))
	for i, tier := range tiers {
		levels[tier] = i + 1
	}
	return levels
}
