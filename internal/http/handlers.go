package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/rating"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// LeaderboardHandler serves the ranked standings. Query parameters:
// sort (rating|wins|win_rate|total_matches), limit, format.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := leaderboard.QueryOptions{
			SortKey: leaderboard.SortKey(r.URL.Query().Get("sort")),
			Format:  r.URL.Query().Get("format"),
		}
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit < 0 {
				http.Error(w, "invalid 'limit' parameter", http.StatusBadRequest)
				return
			}
			opts.Limit = limit
		}

		entries, err := s.Store.Query(opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"entries": entries, "count": len(entries)})
	}
}

// BattleStatsHandler serves aggregate match statistics, optionally
// scoped with the format parameter.
func (s *Server) BattleStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.BattleStats(r.URL.Query().Get("format"))
		if err != nil {
			log.Error("Failed to aggregate battle stats", "error", err)
			http.Error(w, "failed to aggregate stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stats)
	}
}

// updateRequest is the batch payload external reporters submit.
type updateRequest struct {
	BotStats     []*rating.BotStats   `json:"bot_stats"`
	MatchResults []battle.MatchResult `json:"match_results"`
}

// UpdateHandler ingests batched rating deltas and match results from
// external reporters. Matches are idempotent on their ID; the response
// counts what was newly applied.
func (s *Server) UpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would apply update", "matches", len(req.MatchResults), "stats", len(req.BotStats))
			writeJSON(w, map[string]int{"applied_matches": 0, "applied_stats": 0})
			return
		}

		appliedMatches := 0
		for _, result := range req.MatchResults {
			applied, err := s.Store.RecordMatch(result)
			if err != nil {
				log.Error("Failed to record submitted match", "matchID", result.MatchID, "error", err)
				http.Error(w, "failed to record match", http.StatusInternalServerError)
				return
			}
			if applied {
				appliedMatches++
			}
		}

		appliedStats := 0
		for _, stats := range req.BotStats {
			if stats.ID == "" {
				http.Error(w, "bot stats entry missing id", http.StatusBadRequest)
				return
			}
			if err := s.Store.UpsertRating(stats); err != nil {
				log.Error("Failed to upsert submitted stats", "participant", stats.ID, "error", err)
				http.Error(w, "failed to upsert stats", http.StatusInternalServerError)
				return
			}
			appliedStats++
		}

		log.Info("Applied batch update", "appliedMatches", appliedMatches, "appliedStats", appliedStats)
		writeJSON(w, map[string]int{"applied_matches": appliedMatches, "applied_stats": appliedStats})
	}
}

// BattleStatusHandler reports the scheduler's current state.
func (s *Server) BattleStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.Scheduler.Status())
	}
}

type battleRequest struct {
	Format       string `json:"format"`
	DelayMinutes int    `json:"delayMinutes"`
}

// StartBattleHandler triggers an immediate battle cycle.
func (s *Server) StartBattleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req battleRequest
		decodeOptionalBody(r, &req)

		if err := s.Scheduler.StartMatchNow(req.Format); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, "Battle cycle started!")
	}
}

// ScheduleBattleHandler schedules a battle cycle after a delay.
func (s *Server) ScheduleBattleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req battleRequest
		decodeOptionalBody(r, &req)
		if req.DelayMinutes < 0 {
			http.Error(w, "delayMinutes must not be negative", http.StatusBadRequest)
			return
		}

		delay := time.Duration(req.DelayMinutes) * time.Minute
		s.Scheduler.ScheduleMatch(req.Format, delay)
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprintf(w, "Battle cycle scheduled in %s!", delay)
	}
}

// ToggleAutoScheduleHandler flips the automatic cycle switch.
func (s *Server) ToggleAutoScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		enabled := s.Scheduler.SetAutoSchedule(!s.Scheduler.AutoSchedule())
		writeJSON(w, map[string]bool{"auto_schedule": enabled})
	}
}

// CountersHandler serves the lifetime counters persisted in the
// database.
func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to read counters", "error", err)
			http.Error(w, "failed to read counters", http.StatusInternalServerError)
			return
		}
		writeJSON(w, counters)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// decodeOptionalBody tolerates an empty request body.
func decodeOptionalBody(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug("Ignoring unparseable request body", "err", err)
	}
}
