package pairing

import (
	"math/rand"
	"time"

	"github.com/llm-showdown/arena/internal/queue"
)

const priorityRandom = 100

func init() {
	Register("random", func(opts Options) Pairer {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return &randomPairer{opts: opts, rng: rand.New(rand.NewSource(seed))}
	})
}

// randomPairer shuffles the requests and pairs eligible neighbors.
type randomPairer struct {
	opts Options
	rng  *rand.Rand
}

func (p *randomPairer) Name() string { return "random" }

func (p *randomPairer) CreatePairings(requests []queue.MatchRequest, format string) []Pairing {
	shuffled := make([]queue.MatchRequest, len(requests))
	copy(shuffled, requests)
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var pairings []Pairing
	paired := make([]bool, len(shuffled))
	for i := range shuffled {
		if paired[i] {
			continue
		}
		for j := i + 1; j < len(shuffled); j++ {
			if paired[j] || !canPair(shuffled[i], shuffled[j], p.opts.Active) {
				continue
			}
			paired[i], paired[j] = true, true
			pairings = append(pairings, newPairing(shuffled[i], shuffled[j], format, priorityRandom))
			break
		}
	}
	return pairings
}
