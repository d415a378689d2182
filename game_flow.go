package main

import (
	"log"
	"time"
)

// checkWinConditions evaluates the standing win rules and ends the game if
// either side has won. Civilians are checked first, so a night that wipes
// out the last Mafia member can never be claimed by Mafia on the parity
// rule. Returns true if the game is over. Caller holds g.mu.
func (g *Game) checkWinConditions() bool {
	var aliveMafia, aliveOthers int
	for _, p := range g.livingPlayers() {
		if p.Role == RoleMafia {
			aliveMafia++
		} else {
			aliveOthers++
		}
	}
	log.Printf("Win check in game %s: %d mafia, %d innocents alive", g.ID, aliveMafia, aliveOthers)

	if aliveMafia == 0 {
		log.Printf("CIVILIANS WIN in game %s", g.ID)
		g.endGame(WinnerCivilians, "🎉 Civilians win! All mafias have been eliminated!")
		return true
	}
	if aliveMafia >= aliveOthers {
		log.Printf("MAFIA WINS in game %s", g.ID)
		g.endGame(WinnerMafia, "💀 Mafia wins! They now equal or outnumber the innocents!")
		return true
	}
	return false
}

// endGame marks the game finished with a winner. Caller holds g.mu.
func (g *Game) endGame(winner, announcement string) {
	g.Winner = winner
	g.Phase = PhaseGameOver
	g.FinishedAt = time.Now()
	g.appendLog(announcement)
	DebugLog("endGame", "Game %s finished, winner: %s", g.ID, winner)
}

// transitionToNight clears both boards, bumps the round and opens the mafia
// sub-phase. Caller holds g.mu.
func (g *Game) transitionToNight() {
	g.Round++
	g.Night.reset()
	g.Votes.reset()
	g.Phase = PhaseNightMafia
	g.appendLog("🌙 Night phase begins...")
	log.Printf("Game %s entering night %d", g.ID, g.Round)
	DebugLog("transitionToNight", "Game %s entering night %d", g.ID, g.Round)
}

// transitionToDay moves from night results to open discussion. Caller holds
// g.mu.
func (g *Game) transitionToDay() {
	g.Votes.reset()
	g.Phase = PhaseDayDiscussion
	g.appendLog("☀️ Day phase begins! Discussion time!")
	log.Printf("Game %s entering day %d discussion", g.ID, g.Round)
	DebugLog("transitionToDay", "Game %s entering day %d discussion", g.ID, g.Round)
}

// StartVoting closes discussion and opens the ballot box.
func (g *Game) StartVoting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseDayDiscussion {
		return false
	}
	g.Votes.reset()
	g.Phase = PhaseDayVoting
	g.appendLog("🗳️ Voting begins! Choose who to eliminate")
	log.Printf("Game %s entering day %d voting", g.ID, g.Round)
	return true
}
