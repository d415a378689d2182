package main

import (
	"sync"
	"time"
)

// Role is a player's assigned role tag.
type Role string

const (
	RoleUnassigned Role = ""
	RoleMafia      Role = "Mafia"
	RoleSheriff    Role = "Sheriff"
	RoleDoctor     Role = "Doctor"
	RoleMayor      Role = "Mayor"
	RoleCivilian   Role = "Civilian"
)

// Phase is the current step of a game's state machine.
type Phase string

const (
	PhaseLobby         Phase = "lobby"
	PhaseNightMafia    Phase = "night:mafia"
	PhaseNightSheriff  Phase = "night:sheriff"
	PhaseNightDoctor   Phase = "night:doctor"
	PhaseNightResults  Phase = "night:results"
	PhaseDayDiscussion Phase = "day:discussion"
	PhaseDayVoting     Phase = "day:voting"
	PhaseGameOver      Phase = "gameover"
)

// Winner values for a finished game.
const (
	WinnerNone      = ""
	WinnerCivilians = "Civilians"
	WinnerMafia     = "Mafia"
)

// Player is one roster entry. ID is the connection identity assigned by the
// hub at upgrade time; it stays stable across role assignment and death.
// Disconnection removes the entry entirely, which is distinct from Alive=false.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Alive   bool   `json:"alive"`
	Role    Role   `json:"role"`
	IsMayor bool   `json:"is_mayor"`
}

// Game owns the full state of one room. All intent methods take the game
// mutex, so events for one game are processed one at a time while distinct
// games proceed independently.
type Game struct {
	mu sync.Mutex

	ID      string
	Players []*Player
	Phase   Phase
	Round   int
	Night   *NightActionBoard
	Votes   *VoteTally
	Log     []string
	Winner  string

	StartedAt  time.Time
	FinishedAt time.Time

	rules    GameRules
	archived bool
}

func newGame(roomID string, rules GameRules) *Game {
	return &Game{
		ID:    roomID,
		Phase: PhaseLobby,
		Night: newNightActionBoard(),
		Votes: newVoteTally(),
		Log:   []string{"Game created! ID: " + roomID},
		rules: rules,
	}
}

// GameSnapshot is the full-state view broadcast to every room member after
// an accepted intent. Roles are included unredacted, same as the original
// server behavior.
type GameSnapshot struct {
	ID      string   `json:"id"`
	Phase   Phase    `json:"phase"`
	Round   int      `json:"round"`
	Players []Player `json:"players"`
	Log     []string `json:"log"`
	Winner  string   `json:"winner"`
}

// Snapshot copies the current game state for broadcast or archival.
func (g *Game) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() GameSnapshot {
	snap := GameSnapshot{
		ID:     g.ID,
		Phase:  g.Phase,
		Round:  g.Round,
		Winner: g.Winner,
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, *p)
	}
	for _, entry := range g.Log {
		// Empty entries are storyteller placeholders that have not
		// received text yet; hide them until they do.
		if entry != "" {
			snap.Log = append(snap.Log, entry)
		}
	}
	return snap
}

// IsOver reports whether the game has reached its terminal phase.
func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Phase == PhaseGameOver
}

// claimArchive returns true exactly once after the game ends, so the caller
// that wins the claim writes the archive row.
func (g *Game) claimArchive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseGameOver || g.archived {
		return false
	}
	g.archived = true
	return true
}

// ----------------------------------------------------------------------------
// Roster helpers (callers hold g.mu)
// ----------------------------------------------------------------------------

func (g *Game) findPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// playerName resolves a player id for narration. Unknown targets get a
// placeholder rather than failing the intent.
func (g *Game) playerName(id string) string {
	if p := g.findPlayer(id); p != nil {
		return p.Name
	}
	return "an unknown player"
}

func (g *Game) livingPlayers() []*Player {
	var living []*Player
	for _, p := range g.Players {
		if p.Alive {
			living = append(living, p)
		}
	}
	return living
}

func (g *Game) livingMafiaIDs() []string {
	var ids []string
	for _, p := range g.Players {
		if p.Alive && p.Role == RoleMafia {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (g *Game) appendLog(entry string) {
	g.Log = append(g.Log, entry)
}

// appendLogPlaceholder reserves a log slot for text that streams in later
// (storyteller). The slot is hidden from snapshots while empty.
func (g *Game) appendLogPlaceholder() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Log = append(g.Log, "")
	return len(g.Log) - 1
}

func (g *Game) setLogEntry(index int, entry string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index >= 0 && index < len(g.Log) {
		g.Log[index] = entry
	}
}
