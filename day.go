package main

import (
	"fmt"
	"log"
)

// VoteTally collects day-phase votes keyed by voter id. Like the night
// board it only describes the current day and is reset on every phase
// transition that could leave stale ballots behind.
type VoteTally struct {
	Votes map[string]string
}

func newVoteTally() *VoteTally {
	return &VoteTally{Votes: make(map[string]string)}
}

func (t *VoteTally) reset() {
	t.Votes = make(map[string]string)
}

// weightedCounts folds the ballots into per-target totals. Dead voters are
// skipped entirely and the Mayor's ballot counts double. The roster is
// consulted at tally time, so a voter who died after casting contributes
// nothing.
func (t *VoteTally) weightedCounts(g *Game) map[string]int {
	counts := make(map[string]int)
	for voterID, targetID := range t.Votes {
		voter := g.findPlayer(voterID)
		if voter == nil || !voter.Alive {
			continue
		}
		weight := 1
		if voter.IsMayor {
			weight = 2
		}
		counts[targetID] += weight
	}
	return counts
}

// CastVote records one living player's ballot during day voting. Recasting
// overwrites. Once every living player has voted the tally resolves
// automatically.
func (g *Game) CastVote(voterID, targetID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseDayVoting {
		return false
	}
	voter := g.findPlayer(voterID)
	if voter == nil || !voter.Alive {
		DebugLog("CastVote", "Dropping ballot from dead or unknown voter %s in game %s", voterID, g.ID)
		return false
	}

	g.Votes.Votes[voterID] = targetID
	g.appendLog(voter.Name + " voted for " + g.playerName(targetID))
	log.Printf("Vote cast in game %s: %s -> %s", g.ID, voterID, targetID)

	if g.allLivingVoted() {
		g.resolveVotes()
	}
	return true
}

// allLivingVoted reports whether every living player has a ballot in.
// Caller holds g.mu.
func (g *Game) allLivingVoted() bool {
	for _, p := range g.livingPlayers() {
		if _, ok := g.Votes.Votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// SkipVoting force-resolves the tally with whatever ballots are in, so a
// table with an absent player can still finish the day.
func (g *Game) SkipVoting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseDayVoting {
		return false
	}
	log.Printf("Voting skipped in game %s with %d ballot(s)", g.ID, len(g.Votes.Votes))
	g.resolveVotes()
	return true
}

// resolveVotes eliminates the strict plurality target, if any, then
// evaluates win conditions and either ends the game or starts the next
// night. Ties, including the zero-ballot case, eliminate no one. Caller
// holds g.mu.
func (g *Game) resolveVotes() {
	counts := g.Votes.weightedCounts(g)

	var topID string
	var maxVotes int
	tie := false
	for targetID, count := range counts {
		switch {
		case count > maxVotes:
			maxVotes = count
			topID = targetID
			tie = false
		case count == maxVotes:
			tie = true
		}
	}

	eliminated := false
	if maxVotes > 0 && !tie {
		if target := g.findPlayer(topID); target != nil && target.Alive {
			target.Alive = false
			eliminated = true
			g.appendLog(fmt.Sprintf("🗳️ %s (%s) was eliminated by vote!", target.Name, target.Role))
			log.Printf("Player eliminated by vote in game %s: %s (%d weighted vote(s))", g.ID, target.Name, maxVotes)
		}
	}
	if !eliminated {
		g.appendLog("🗳️ No one was eliminated - tied vote!")
		log.Printf("Vote tied in game %s, no elimination", g.ID)
	}

	if g.checkWinConditions() {
		return
	}
	g.transitionToNight()
}
