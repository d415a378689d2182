package main

import (
	"log"
	"time"
)

// Join adds a named player to the roster while the game is still in the
// lobby. Joining with an id that is already on the roster replaces that
// entry, so a reconnecting client can fix its display name.
func (g *Game) Join(playerID, name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseLobby {
		DebugLog("Join", "Player '%s' cannot join game %s - phase is '%s'", name, g.ID, g.Phase)
		return false
	}

	for i, p := range g.Players {
		if p.ID == playerID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			break
		}
	}
	g.Players = append(g.Players, &Player{
		ID:    playerID,
		Name:  name,
		Alive: true,
		Role:  RoleUnassigned,
	})

	g.appendLog(name + " joined the game")
	log.Printf("Player %s (%s) joined game %s lobby (%d player(s))", playerID, name, g.ID, len(g.Players))
	DebugLog("Join", "Player '%s' (ID: %s) joined game %s lobby", name, playerID, g.ID)
	return true
}

// StartGame shuffles the configured role pool over the roster and opens the
// first night. It silently refuses outside the lobby or below the minimum
// player count.
func (g *Game) StartGame() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseLobby {
		log.Printf("Cannot start game %s: phase is '%s', expected '%s'", g.ID, g.Phase, PhaseLobby)
		return false
	}
	if len(g.Players) < g.rules.MinimumPlayers {
		log.Printf("Cannot start game %s: %d player(s), need %d", g.ID, len(g.Players), g.rules.MinimumPlayers)
		return false
	}

	roles := assignRoles(len(g.Players), g.rules.RolePool)
	for i, p := range g.Players {
		p.Role = roles[i]
		p.IsMayor = roles[i] == RoleMayor
		p.Alive = true
		DebugLog("StartGame", "Assigned %s to player %s (%s)", roles[i], p.ID, p.Name)
	}

	g.Round = 1
	g.StartedAt = time.Now()
	g.Night.reset()
	g.Votes.reset()
	g.Winner = WinnerNone
	g.Phase = PhaseNightMafia
	g.appendLog("Game started! Night phase begins...")
	log.Printf("Game %s started with %d players, night 1", g.ID, len(g.Players))
	DebugLog("StartGame", "Game %s started, transitioning to night phase", g.ID)
	return true
}

// RemovePlayer drops a disconnected player from the roster in any phase.
// Removal never advances the phase on its own; completion predicates are
// only re-checked on the next submission. Returns whether anything changed
// and whether the roster is now empty.
func (g *Game) RemovePlayer(playerID string) (changed, empty bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, p := range g.Players {
		if p.ID == playerID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			g.appendLog(p.Name + " disconnected")
			log.Printf("Player %s (%s) removed from game %s (disconnected)", playerID, p.Name, g.ID)
			DebugLog("RemovePlayer", "Player '%s' (ID: %s) left game %s", p.Name, playerID, g.ID)
			return true, len(g.Players) == 0
		}
	}
	return false, len(g.Players) == 0
}
