package pairing

import (
	"math"
	"sort"

	"github.com/llm-showdown/arena/internal/queue"
)

// DefaultEloThreshold is the widest rating gap the elo strategy will
// pair across.
const DefaultEloThreshold = 200.0

func init() {
	Register("elo", func(opts Options) Pairer { return &eloPairer{opts: opts} })
}

// eloPairer pairs participants of similar strength: requests are
// sorted by rating and each one is greedily matched to the nearest
// eligible neighbor within the threshold.
type eloPairer struct {
	opts Options
}

func (p *eloPairer) Name() string { return "elo" }

func (p *eloPairer) CreatePairings(requests []queue.MatchRequest, format string) []Pairing {
	threshold := p.opts.EloThreshold
	if threshold <= 0 {
		threshold = DefaultEloThreshold
	}

	type entry struct {
		req    queue.MatchRequest
		rating float64
	}
	entries := make([]entry, 0, len(requests))
	for _, req := range requests {
		entries = append(entries, entry{req: req, rating: statsOrDefault(p.opts.Stats, req.ParticipantID).Rating})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].rating < entries[j].rating })

	var pairings []Pairing
	paired := make([]bool, len(entries))
	for i := range entries {
		if paired[i] {
			continue
		}
		best := -1
		bestDiff := math.MaxFloat64
		for j := i + 1; j < len(entries); j++ {
			if paired[j] {
				continue
			}
			diff := entries[j].rating - entries[i].rating
			if diff > threshold {
				// Sorted order: everything past here is further away.
				break
			}
			if !canPair(entries[i].req, entries[j].req, p.opts.Active) {
				continue
			}
			if diff < bestDiff {
				best = j
				bestDiff = diff
			}
		}
		if best == -1 {
			continue
		}
		paired[i], paired[best] = true, true
		priority := 1000 - int(bestDiff)
		pairings = append(pairings, newPairing(entries[i].req, entries[best].req, format, priority))
	}
	return pairings
}
