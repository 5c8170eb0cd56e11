// Package leaderboard is the durable record of matches and ratings:
// an append-only match history plus one rating row per participant,
// backed by sqlite.
package leaderboard

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/rating"
)

// recentFormWindow is how many matches feed the recent-form column.
const recentFormWindow = 5

// New creates a new LeaderboardStore backed by db.
func New(db *sql.DB) LeaderboardStore {
	return &store{db: db}
}

// RecordMatch appends a match result, ignoring duplicates by match ID.
func (s *store) RecordMatch(result battle.MatchResult) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO match_results (match_id, participant_a, participant_b, winner, outcome, format, duration_ms, turn_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.MatchID, result.ParticipantA, result.ParticipantB, result.Winner, string(result.Outcome),
		result.Format, result.Duration.Milliseconds(), result.TurnCount, result.Timestamp.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("failed to record match %s: %w", result.MatchID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		log.Debug("Match already recorded, skipping", "matchID", result.MatchID)
	}
	return rows > 0, nil
}

// UpsertRating folds a delta record into a participant's row. Counts
// and format counters are summed, the longest streak is maxed, and
// rating, current streak and last-match time take the incoming value.
// A missing row is created, so the first delta doubles as the insert.
func (s *store) UpsertRating(stats *rating.BotStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	mergedFormats := make(map[string]int, len(stats.FormatCounts))
	for f, c := range stats.FormatCounts {
		mergedFormats[f] = c
	}
	var existingJSON sql.NullString
	err = tx.QueryRow("SELECT format_counts_json FROM bot_stats WHERE id = ?", stats.ID).Scan(&existingJSON)
	if err != nil && err != sql.ErrNoRows {
		tx.Rollback()
		return fmt.Errorf("failed to read existing stats for %s: %w", stats.ID, err)
	}
	if existingJSON.Valid && existingJSON.String != "" {
		existing := make(map[string]int)
		if err := json.Unmarshal([]byte(existingJSON.String), &existing); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to decode format counts for %s: %w", stats.ID, err)
		}
		for f, c := range existing {
			mergedFormats[f] += c
		}
	}
	formatsJSON, err := json.Marshal(mergedFormats)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO bot_stats (id, rating, wins, losses, draws, current_streak, longest_win_streak, last_match_time, format_counts_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rating = excluded.rating,
			wins = wins + excluded.wins,
			losses = losses + excluded.losses,
			draws = draws + excluded.draws,
			current_streak = excluded.current_streak,
			longest_win_streak = MAX(longest_win_streak, excluded.longest_win_streak),
			last_match_time = excluded.last_match_time,
			format_counts_json = ?
	`, stats.ID, stats.Rating, stats.Wins, stats.Losses, stats.Draws, stats.CurrentStreak,
		stats.LongestWinStreak, stats.LastMatchTime.UnixMilli(), string(formatsJSON), string(formatsJSON))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to upsert rating for %s: %w", stats.ID, err)
	}
	return tx.Commit()
}

// Stats returns a participant's accumulated record.
func (s *store) Stats(id string) (*rating.BotStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, rating, wins, losses, draws, current_streak, longest_win_streak, last_match_time, format_counts_json
		FROM bot_stats WHERE id = ?
	`, id)
	stats, err := scanStats(row)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Error("Failed to load bot stats", "id", id, "error", err)
		return nil, false
	}
	return stats, true
}

// RecentOpponents lists the opponents of a participant's last n
// matches, most recent first.
func (s *store) RecentOpponents(id string, n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT participant_a, participant_b FROM match_results
		WHERE participant_a = ? OR participant_b = ?
		ORDER BY created_at DESC LIMIT ?
	`, id, id, n)
	if err != nil {
		log.Error("Failed to load recent opponents", "id", id, "error", err)
		return nil
	}
	defer rows.Close()

	var opponents []string
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			continue
		}
		if a == id {
			opponents = append(opponents, b)
		} else {
			opponents = append(opponents, a)
		}
	}
	return opponents
}

// participantAgg accumulates a participant's scoped history while
// scanning matches most recent first.
type participantAgg struct {
	wins, losses, draws int
	form                []string
	totalDuration       time.Duration
	matches             int
	formats             map[string]int
	lastMatch           time.Time
	currentStreak       int
	longestStreak       int
	headBroken          bool
	run                 int
}

func (a *participantAgg) add(letter string, m battle.MatchResult) {
	switch letter {
	case "W":
		a.wins++
	case "L":
		a.losses++
	case "D":
		a.draws++
	}
	if len(a.form) < recentFormWindow {
		a.form = append(a.form, letter)
	}
	a.totalDuration += m.Duration
	if a.formats == nil {
		a.formats = make(map[string]int)
	}
	a.formats[m.Format]++
	if a.matches == 0 {
		a.lastMatch = m.Timestamp
	}
	a.matches++

	// Matches arrive most recent first; win-run lengths are direction
	// independent, and the unbroken head run is the current streak.
	if letter == "W" {
		a.run++
		if a.run > a.longestStreak {
			a.longestStreak = a.run
		}
		if !a.headBroken {
			a.currentStreak++
		}
	} else {
		a.run = 0
		a.headBroken = true
	}
}

func (a *participantAgg) favoriteFormat() string {
	best := ""
	bestCount := 0
	names := make([]string, 0, len(a.formats))
	for f := range a.formats {
		names = append(names, f)
	}
	sort.Strings(names)
	for _, f := range names {
		if a.formats[f] > bestCount {
			best = f
			bestCount = a.formats[f]
		}
	}
	return best
}

// Query returns ranked entries with derived fields. With a format
// filter the record columns are recomputed from the scoped history;
// the rating itself is always the global one.
func (s *store) Query(opts QueryOptions) ([]Entry, error) {
	if opts.SortKey == "" {
		opts.SortKey = SortByRating
	}
	if !ValidSortKey(opts.SortKey) {
		return nil, fmt.Errorf("invalid sort key %q", opts.SortKey)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allStats, err := s.loadAllStats()
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(opts.Format)
	if err != nil {
		return nil, err
	}

	aggs := aggregate(history)

	var entries []Entry
	for id, stats := range allStats {
		agg, hasHistory := aggs[id]
		if opts.Format != "" && !hasHistory {
			continue
		}
		entry := Entry{
			ID:               id,
			Rating:           stats.Rating,
			Wins:             stats.Wins,
			Losses:           stats.Losses,
			Draws:            stats.Draws,
			CurrentStreak:    stats.CurrentStreak,
			LongestWinStreak: stats.LongestWinStreak,
			LastMatchTime:    stats.LastMatchTime,
		}
		if hasHistory {
			if opts.Format != "" {
				entry.Wins = agg.wins
				entry.Losses = agg.losses
				entry.Draws = agg.draws
			}
			entry.RecentForm = agg.form
			entry.CurrentStreak = agg.currentStreak
			entry.LongestWinStreak = agg.longestStreak
			entry.LastMatchTime = agg.lastMatch
			entry.FavoriteFormat = agg.favoriteFormat()
			entry.AvgDuration = agg.totalDuration / time.Duration(agg.matches)
		}
		entry.TotalMatches = entry.Wins + entry.Losses + entry.Draws
		if entry.TotalMatches > 0 {
			entry.WinRate = float64(entry.Wins) / float64(entry.TotalMatches)
		}
		entries = append(entries, entry)
	}

	sortEntries(entries, opts.SortKey)
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// BattleStats aggregates the recorded history, optionally scoped to
// one format.
func (s *store) BattleStats(format string) (*BattleStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, err := s.loadHistory(format)
	if err != nil {
		return nil, err
	}

	stats := &BattleStats{FormatCounts: make(map[string]int)}
	participants := make(map[string]bool)
	var totalDuration time.Duration
	var totalTurns int
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, m := range history {
		stats.TotalMatches++
		totalDuration += m.Duration
		totalTurns += m.TurnCount
		stats.FormatCounts[m.Format]++
		participants[m.ParticipantA] = true
		participants[m.ParticipantB] = true
		if m.Timestamp.After(cutoff) {
			stats.MatchesLast24++
		}
	}
	if stats.TotalMatches > 0 {
		stats.AvgDuration = totalDuration / time.Duration(stats.TotalMatches)
		stats.AvgTurnCount = float64(totalTurns) / float64(stats.TotalMatches)
	}
	stats.ActiveBots = len(participants)
	return stats, nil
}

func aggregate(history []battle.MatchResult) map[string]*participantAgg {
	aggs := make(map[string]*participantAgg)
	get := func(id string) *participantAgg {
		if aggs[id] == nil {
			aggs[id] = &participantAgg{}
		}
		return aggs[id]
	}
	for _, m := range history {
		letterA, letterB := "D", "D"
		if m.Outcome == battle.OutcomeWin {
			if m.Winner == m.ParticipantA {
				letterA, letterB = "W", "L"
			} else {
				letterA, letterB = "L", "W"
			}
		}
		get(m.ParticipantA).add(letterA, m)
		get(m.ParticipantB).add(letterB, m)
	}
	return aggs
}

func sortEntries(entries []Entry, key SortKey) {
	value := func(e Entry) float64 {
		switch key {
		case SortByWins:
			return float64(e.Wins)
		case SortByWinRate:
			return e.WinRate
		case SortByTotalMatches:
			return float64(e.TotalMatches)
		default:
			return e.Rating
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		vi, vj := value(entries[i]), value(entries[j])
		if vi != vj {
			return vi > vj
		}
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].ID < entries[j].ID
	})
}

func (s *store) loadAllStats() (map[string]*rating.BotStats, error) {
	rows, err := s.db.Query(`
		SELECT id, rating, wins, losses, draws, current_streak, longest_win_streak, last_match_time, format_counts_json
		FROM bot_stats
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]*rating.BotStats)
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			log.Error("Failed to scan bot stats row", "error", err)
			continue
		}
		all[stats.ID] = stats
	}
	return all, rows.Err()
}

// loadHistory returns matches most recent first, optionally scoped to
// one format.
func (s *store) loadHistory(format string) ([]battle.MatchResult, error) {
	query := `
		SELECT match_id, participant_a, participant_b, winner, outcome, format, duration_ms, turn_count, created_at
		FROM match_results
	`
	var args []any
	if format != "" {
		query += " WHERE format = ?"
		args = append(args, format)
	}
	query += " ORDER BY created_at DESC, match_id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []battle.MatchResult
	for rows.Next() {
		var m battle.MatchResult
		var outcome string
		var durationMs, createdAt int64
		if err := rows.Scan(&m.MatchID, &m.ParticipantA, &m.ParticipantB, &m.Winner, &outcome, &m.Format, &durationMs, &m.TurnCount, &createdAt); err != nil {
			return nil, err
		}
		m.Outcome = battle.Outcome(outcome)
		m.Duration = time.Duration(durationMs) * time.Millisecond
		m.Timestamp = time.UnixMilli(createdAt)
		history = append(history, m)
	}
	return history, rows.Err()
}

func scanStats(scanner interface{ Scan(...any) error }) (*rating.BotStats, error) {
	var stats rating.BotStats
	var lastMatchMs int64
	var formatsJSON sql.NullString

	err := scanner.Scan(&stats.ID, &stats.Rating, &stats.Wins, &stats.Losses, &stats.Draws,
		&stats.CurrentStreak, &stats.LongestWinStreak, &lastMatchMs, &formatsJSON)
	if err != nil {
		return nil, err
	}
	if lastMatchMs > 0 {
		stats.LastMatchTime = time.UnixMilli(lastMatchMs)
	}
	stats.FormatCounts = make(map[string]int)
	if formatsJSON.Valid && formatsJSON.String != "" {
		if err := json.Unmarshal([]byte(formatsJSON.String), &stats.FormatCounts); err != nil {
			return nil, fmt.Errorf("failed to decode format counts: %w", err)
		}
	}
	return &stats, nil
}
