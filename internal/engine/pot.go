package engine

import "sort"

// Pot is an amount of chips and the players eligible to win it
type Pot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// hasEligible reports whether id may win this pot
func (p *Pot) hasEligible(id string) bool {
	for _, e := range p.Eligible {
		if e == id {
			return true
		}
	}
	return false
}

// removeEligible purges id from the pot's eligibility list
func (p *Pot) removeEligible(id string) {
	for i, e := range p.Eligible {
		if e == id {
			p.Eligible = append(p.Eligible[:i], p.Eligible[i+1:]...)
			return
		}
	}
}

// potContribution is one hand-long contribution used to tier side pots.
// Dead entries (folded or departed players) add chips but no eligibility.
type potContribution struct {
	id     string
	amount int
	live   bool
	allIn  bool
}

// buildPots tiers contributions into a main pot and side pots keyed by
// each all-in player's contribution level, with restricted eligibility.
// Dead money is spread across the levels it reaches.
func buildPots(contribs []potContribution) []Pot {
	// Level caps exist at each live all-in contribution, plus an open
	// level at the highest contribution of any kind.
	capSet := make(map[int]bool)
	maxContrib := 0
	for _, c := range contribs {
		if c.live && c.allIn && c.amount > 0 {
			capSet[c.amount] = true
		}
		if c.amount > maxContrib {
			maxContrib = c.amount
		}
	}
	if maxContrib == 0 {
		return []Pot{{Amount: 0, Eligible: liveIDs(contribs)}}
	}
	capSet[maxContrib] = true

	caps := make([]int, 0, len(capSet))
	for level := range capSet {
		caps = append(caps, level)
	}
	sort.Ints(caps)

	pots := make([]Pot, 0, len(caps))
	prev := 0
	for _, level := range caps {
		pot := Pot{}
		for _, c := range contribs {
			pot.Amount += clamp(c.amount, level) - clamp(c.amount, prev)
			if c.live && c.amount >= level {
				pot.Eligible = append(pot.Eligible, c.id)
			}
		}
		if len(pot.Eligible) == 0 && len(pots) > 0 {
			// Nothing live can win this layer; fold it into the pot below
			pots[len(pots)-1].Amount += pot.Amount
			prev = level
			continue
		}
		pots = append(pots, pot)
		prev = level
	}

	if len(pots) == 0 {
		pots = []Pot{{Amount: 0, Eligible: liveIDs(contribs)}}
	}
	return pots
}

func liveIDs(contribs []potContribution) []string {
	ids := make([]string, 0, len(contribs))
	for _, c := range contribs {
		if c.live {
			ids = append(ids, c.id)
		}
	}
	return ids
}

func clamp(v, max int) int {
	if v > max {
		return max
	}
	return v
}
