package leaderboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// Snapshot exports the full store contents: every rating record and
// the complete match history, oldest first.
func (s *store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allStats, err := s.loadAllStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for snapshot: %w", err)
	}
	history, err := s.loadHistory("")
	if err != nil {
		return nil, fmt.Errorf("failed to load history for snapshot: %w", err)
	}
	// loadHistory returns most recent first; snapshots keep
	// chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	snap := &Snapshot{
		MatchHistory: history,
		LastUpdated:  time.Now(),
	}
	ids := make([]string, 0, len(allStats))
	for id := range allStats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		snap.BotStats = append(snap.BotStats, allStats[id])
	}
	return snap, nil
}

// Restore loads a snapshot into the store. Rating rows are replaced
// wholesale; match rows are appended idempotently.
func (s *store) Restore(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, stats := range snap.BotStats {
		formatsJSON, err := json.Marshal(stats.FormatCounts)
		if err != nil {
			tx.Rollback()
			return err
		}
		_, err = tx.Exec(`
			REPLACE INTO bot_stats (id, rating, wins, losses, draws, current_streak, longest_win_streak, last_match_time, format_counts_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, stats.ID, stats.Rating, stats.Wins, stats.Losses, stats.Draws, stats.CurrentStreak,
			stats.LongestWinStreak, stats.LastMatchTime.UnixMilli(), string(formatsJSON))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to restore stats for %s: %w", stats.ID, err)
		}
	}
	for _, m := range snap.MatchHistory {
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO match_results (match_id, participant_a, participant_b, winner, outcome, format, duration_ms, turn_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.MatchID, m.ParticipantA, m.ParticipantB, m.Winner, string(m.Outcome),
			m.Format, m.Duration.Milliseconds(), m.TurnCount, m.Timestamp.UnixMilli())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to restore match %s: %w", m.MatchID, err)
		}
	}
	return tx.Commit()
}

// SaveSnapshot writes the store contents to path as JSON. The write
// goes to a temp file first and is renamed into place, so a crash can
// never leave a truncated snapshot behind.
func (s *store) SaveSnapshot(path string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Info("Saved leaderboard snapshot", "path", path, "bots", len(snap.BotStats), "matches", len(snap.MatchHistory))
	return nil
}

// LoadSnapshot reads a JSON snapshot from path and restores it.
func (s *store) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.Restore(&snap); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Info("Loaded leaderboard snapshot", "path", path, "bots", len(snap.BotStats), "matches", len(snap.MatchHistory))
	return nil
}
