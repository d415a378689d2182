package main

import (
	"log"
	"time"
)

// MatchRecord is one finished game in the archive.
type MatchRecord struct {
	ID         int64     `db:"id" json:"id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	Winner     string    `db:"winner" json:"winner"`
	Rounds     int       `db:"rounds" json:"rounds"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

type MatchPlayerRecord struct {
	ID       int64  `db:"id" json:"id"`
	MatchID  int64  `db:"match_id" json:"match_id"`
	PlayerID string `db:"player_id" json:"player_id"`
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
	IsMayor  bool   `db:"is_mayor" json:"is_mayor"`
	Survived bool   `db:"survived" json:"survived"`
}

type MatchLogRecord struct {
	ID      int64  `db:"id" json:"id"`
	MatchID int64  `db:"match_id" json:"match_id"`
	Seq     int    `db:"seq" json:"seq"`
	Entry   string `db:"entry" json:"entry"`
}

func initDB() error {
	schema := `
	PRAGMA journal_mode=WAL;

	CREATE TABLE IF NOT EXISTS match (
		room_id TEXT NOT NULL,
		winner TEXT NOT NULL,
		rounds INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS match_player (
		match_id INTEGER NOT NULL,
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		is_mayor INTEGER NOT NULL DEFAULT 0,
		survived INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (match_id) REFERENCES match(rowid),
		UNIQUE(match_id, player_id)
	);
	CREATE TABLE IF NOT EXISTS match_log (
		match_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		entry TEXT NOT NULL,
		FOREIGN KEY (match_id) REFERENCES match(rowid),
		UNIQUE(match_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_match_room ON match(room_id, finished_at);
	`
	_, err := db.Exec(schema)
	if err != nil {
		log.Printf("initDB error: %v", err)
		return err
	}
	log.Printf("Database initialized successfully")
	return nil
}

// archiveMatch writes one finished game to the archive: the match row, the
// final roster with roles revealed, and the full narration log.
func archiveMatch(g *Game) error {
	snapshot := g.Snapshot()
	g.mu.Lock()
	startedAt, finishedAt := g.StartedAt, g.FinishedAt
	rosterLen := len(g.Players)
	g.mu.Unlock()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO match (room_id, winner, rounds, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.Winner, snapshot.Round, startedAt, finishedAt)
	if err != nil {
		return err
	}
	matchID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, p := range snapshot.Players {
		_, err = tx.Exec(`INSERT INTO match_player (match_id, player_id, name, role, is_mayor, survived)
			VALUES (?, ?, ?, ?, ?, ?)`,
			matchID, p.ID, p.Name, string(p.Role), p.IsMayor, p.Alive)
		if err != nil {
			return err
		}
	}

	for i, entry := range snapshot.Log {
		_, err = tx.Exec(`INSERT INTO match_log (match_id, seq, entry) VALUES (?, ?, ?)`,
			matchID, i, entry)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("Archived match %d for room %s: winner=%s, %d players, %d log entries",
		matchID, snapshot.ID, snapshot.Winner, rosterLen, len(snapshot.Log))
	LogDBState("after match archived: " + snapshot.ID)
	return nil
}

// recentMatches returns the newest finished matches, most recent first.
func recentMatches(limit int) ([]MatchRecord, error) {
	var matches []MatchRecord
	err := db.Select(&matches, `
		SELECT rowid as id, room_id, winner, rounds, started_at, finished_at
		FROM match
		ORDER BY finished_at DESC, rowid DESC
		LIMIT ?`, limit)
	return matches, err
}

// matchPlayers returns the archived roster for one match.
func matchPlayers(matchID int64) ([]MatchPlayerRecord, error) {
	var players []MatchPlayerRecord
	err := db.Select(&players, `
		SELECT rowid as id, match_id, player_id, name, role, is_mayor, survived
		FROM match_player
		WHERE match_id = ?`, matchID)
	return players, err
}

// matchLog returns the archived narration for one match in order.
func matchLog(matchID int64) ([]MatchLogRecord, error) {
	var entries []MatchLogRecord
	err := db.Select(&entries, `
		SELECT rowid as id, match_id, seq, entry
		FROM match_log
		WHERE match_id = ?
		ORDER BY seq`, matchID)
	return entries, err
}
