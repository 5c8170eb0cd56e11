package pairing

import (
	"sort"

	"github.com/llm-showdown/arena/internal/queue"
)

const (
	prioritySwiss = 200
	// swissHistoryWindow is how many recent matches are checked to
	// avoid immediate rematches.
	swissHistoryWindow = 5
)

func init() {
	Register("swiss", func(opts Options) Pairer { return &swissPairer{opts: opts} })
}

// swissPairer matches participants on similar standings, skipping
// opponents already faced within the recent history window.
type swissPairer struct {
	opts Options
}

func (p *swissPairer) Name() string { return "swiss" }

func (p *swissPairer) CreatePairings(requests []queue.MatchRequest, format string) []Pairing {
	entries := make([]queue.MatchRequest, len(requests))
	copy(entries, requests)
	sort.SliceStable(entries, func(i, j int) bool {
		si := statsOrDefault(p.opts.Stats, entries[i].ParticipantID)
		sj := statsOrDefault(p.opts.Stats, entries[j].ParticipantID)
		if si.WinRate() != sj.WinRate() {
			return si.WinRate() > sj.WinRate()
		}
		return si.TotalMatches() > sj.TotalMatches()
	})

	var pairings []Pairing
	paired := make([]bool, len(entries))
	for i := range entries {
		if paired[i] {
			continue
		}
		recent := p.recentOpponents(entries[i].ParticipantID)
		for j := i + 1; j < len(entries); j++ {
			if paired[j] || !canPair(entries[i], entries[j], p.opts.Active) {
				continue
			}
			if recent[entries[j].ParticipantID] {
				continue
			}
			paired[i], paired[j] = true, true
			pairings = append(pairings, newPairing(entries[i], entries[j], format, prioritySwiss))
			break
		}
	}
	return pairings
}

func (p *swissPairer) recentOpponents(id string) map[string]bool {
	recent := make(map[string]bool)
	if p.opts.Stats == nil {
		return recent
	}
	for _, opp := range p.opts.Stats.RecentOpponents(id, swissHistoryWindow) {
		recent[opp] = true
	}
	return recent
}
