package pairing

import "github.com/llm-showdown/arena/internal/queue"

const priorityRoundRobin = 300

func init() {
	Register("roundrobin", func(opts Options) Pairer { return &roundRobinPairer{opts: opts} })
}

// roundRobinPairer emits every unordered eligible pair exactly once.
// It is used for one-shot tournaments, not the continuous scheduler:
// a participant appears in multiple pairings.
type roundRobinPairer struct {
	opts Options
}

func (p *roundRobinPairer) Name() string { return "roundrobin" }

func (p *roundRobinPairer) CreatePairings(requests []queue.MatchRequest, format string) []Pairing {
	var pairings []Pairing
	for i := range requests {
		for j := i + 1; j < len(requests); j++ {
			if !canPair(requests[i], requests[j], p.opts.Active) {
				continue
			}
			pairings = append(pairings, newPairing(requests[i], requests[j], format, priorityRoundRobin))
		}
	}
	return pairings
}
