package main

import (
	"fmt"
	"testing"
)

func TestStartGameRefusedBelowMinimum(t *testing.T) {
	g := buildLobby(3)
	if g.StartGame() {
		t.Fatalf("game started with fewer players than the minimum")
	}
	requirePhase(t, g, PhaseLobby)
}

func TestStartGameRefusedOutsideLobby(t *testing.T) {
	g := buildLobby(4)
	if !g.StartGame() {
		t.Fatalf("start refused with a full lobby")
	}
	if g.StartGame() {
		t.Fatalf("game started twice")
	}
}

func TestStartGameAssignsEveryRole(t *testing.T) {
	g := buildLobby(6)
	if !g.StartGame() {
		t.Fatalf("start refused")
	}
	requirePhase(t, g, PhaseNightMafia)

	snap := g.Snapshot()
	if snap.Round != 1 {
		t.Fatalf("round = %d, want 1", snap.Round)
	}
	for _, p := range snap.Players {
		if p.Role == RoleUnassigned {
			t.Fatalf("player %s left unassigned", p.ID)
		}
		if !p.Alive {
			t.Fatalf("player %s started the game dead", p.ID)
		}
	}
}

func TestJoinRefusedAfterStart(t *testing.T) {
	g := buildLobby(4)
	g.StartGame()
	if g.Join("late", "Latecomer") {
		t.Fatalf("player joined a running game")
	}
}

func TestRejoinReplacesRosterEntry(t *testing.T) {
	g := buildLobby(4)
	if !g.Join("p0", "Renamed") {
		t.Fatalf("rejoin refused")
	}
	snap := g.Snapshot()
	if len(snap.Players) != 4 {
		t.Fatalf("roster has %d players, want 4", len(snap.Players))
	}
	seen := false
	for _, p := range snap.Players {
		if p.ID == "p0" {
			if seen {
				t.Fatalf("duplicate roster entry for p0")
			}
			seen = true
			if p.Name != "Renamed" {
				t.Fatalf("rejoin kept the old name %q", p.Name)
			}
		}
	}
	if !seen {
		t.Fatalf("p0 missing after rejoin")
	}
}

func TestRemovePlayerAnyPhase(t *testing.T) {
	g := buildGame(RoleMafia, RoleSheriff, RoleDoctor, RoleMayor)

	changed, empty := g.RemovePlayer("p2")
	if !changed || empty {
		t.Fatalf("remove: changed=%v empty=%v", changed, empty)
	}
	if !logContains(g, "P2 disconnected") {
		t.Fatalf("disconnect narration missing")
	}
	// Removal never advances the phase on its own.
	requirePhase(t, g, PhaseNightMafia)

	if changed, _ := g.RemovePlayer("p2"); changed {
		t.Fatalf("removing an absent player reported a change")
	}
}

func TestRemoveLastPlayerReportsEmpty(t *testing.T) {
	g := buildLobby(1)
	if _, empty := g.RemovePlayer("p0"); !empty {
		t.Fatalf("empty roster not reported")
	}
}

func TestMafiaWinsOnParity(t *testing.T) {
	g := buildGame(RoleMafia, RoleSheriff, RoleDoctor, RoleMayor)

	// Night kill brings it to 1 mafia vs 2 innocents: game continues.
	g.SubmitMafiaTarget("p0", "p3")
	g.SubmitSheriffAction("ghost", false)
	g.SubmitDoctorAction("ghost")
	g.ProcessNight()
	requirePhase(t, g, PhaseDayDiscussion)

	// The next kill reaches parity and mafia wins.
	g.StartVoting()
	g.SkipVoting()
	g.SubmitMafiaTarget("p0", "p1")
	g.SubmitSheriffAction("ghost", false)
	g.SubmitDoctorAction("ghost")
	g.ProcessNight()

	requirePhase(t, g, PhaseGameOver)
	if got := g.Snapshot().Winner; got != WinnerMafia {
		t.Fatalf("winner = %q, want %q", got, WinnerMafia)
	}
	if !logContains(g, "💀 Mafia wins!") {
		t.Fatalf("mafia win announcement missing")
	}
}

func TestCiviliansWinWhenLastMafiaDies(t *testing.T) {
	g := buildGame(RoleMafia, RoleSheriff, RoleDoctor, RoleMayor)

	g.SubmitMafiaTarget("p0", "p3")
	g.SubmitSheriffAction("p0", true)
	g.SubmitDoctorAction("ghost")
	g.ProcessNight()

	// Both the mayor and the mafia died this night. With zero mafia left
	// the civilians win even though the body count favoured the mafia.
	requirePhase(t, g, PhaseGameOver)
	if got := g.Snapshot().Winner; got != WinnerCivilians {
		t.Fatalf("winner = %q, want %q", got, WinnerCivilians)
	}
}

func TestGameOverRejectsFurtherIntents(t *testing.T) {
	g := buildGame(RoleMafia, RoleSheriff, RoleDoctor, RoleMayor)
	g.SubmitMafiaTarget("p0", "p3")
	g.SubmitSheriffAction("p0", true)
	g.SubmitDoctorAction("ghost")
	g.ProcessNight()
	requirePhase(t, g, PhaseGameOver)

	if g.SubmitMafiaTarget("p0", "p1") {
		t.Fatalf("mafia target accepted after game over")
	}
	if g.CastVote("p1", "p2") {
		t.Fatalf("vote accepted after game over")
	}
	if g.StartVoting() {
		t.Fatalf("start_voting accepted after game over")
	}
	if g.SkipToVoting() {
		t.Fatalf("skip_to_voting accepted after game over")
	}
	if g.StartGame() {
		t.Fatalf("start_game accepted after game over")
	}
}

func TestStartVotingOnlyFromDiscussion(t *testing.T) {
	g := buildGame(RoleMafia, RoleSheriff, RoleDoctor, RoleMayor)
	if g.StartVoting() {
		t.Fatalf("voting started during the night")
	}

	g.SkipToVoting()
	if g.StartVoting() {
		t.Fatalf("voting started while already voting")
	}
}

func TestFullRoundFlow(t *testing.T) {
	g := newGame("room1", defaultRules())
	for i := 0; i < 4; i++ {
		g.Join(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
	}
	if !g.StartGame() {
		t.Fatalf("start refused")
	}

	// Identify the assigned seats so the scripted night makes sense.
	var mafia, sheriff, doctor, mayor string
	for _, p := range g.Snapshot().Players {
		switch p.Role {
		case RoleMafia:
			mafia = p.ID
		case RoleSheriff:
			sheriff = p.ID
		case RoleDoctor:
			doctor = p.ID
		case RoleMayor:
			mayor = p.ID
		}
	}
	if mafia == "" || sheriff == "" || doctor == "" || mayor == "" {
		t.Fatalf("role pool not fully dealt: %+v", g.Snapshot().Players)
	}

	// Night 1: mafia kills the doctor, sheriff investigates the mafia,
	// doctor futilely protects the mayor.
	if !g.SubmitMafiaTarget(mafia, doctor) {
		t.Fatalf("mafia submission refused")
	}
	if !g.SubmitSheriffAction(mafia, false) {
		t.Fatalf("sheriff submission refused")
	}
	if !g.SubmitDoctorAction(mayor) {
		t.Fatalf("doctor submission refused")
	}
	changed, deaths := g.ProcessNight()
	if !changed || deaths != 1 {
		t.Fatalf("process_night: changed=%v deaths=%d", changed, deaths)
	}
	if player(t, g, doctor).Alive {
		t.Fatalf("mafia victim survived")
	}
	requirePhase(t, g, PhaseDayDiscussion)

	// Day 1: the investigation exposed the mafia and the town votes them
	// out.
	if !g.StartVoting() {
		t.Fatalf("start_voting refused")
	}
	for _, p := range g.Snapshot().Players {
		if p.Alive {
			g.CastVote(p.ID, mafia)
		}
	}

	requirePhase(t, g, PhaseGameOver)
	snap := g.Snapshot()
	if snap.Winner != WinnerCivilians {
		t.Fatalf("winner = %q, want %q", snap.Winner, WinnerCivilians)
	}
	if player(t, g, mafia).Alive {
		t.Fatalf("voted-out mafia still alive")
	}
	g.mu.Lock()
	finished := g.FinishedAt
	g.mu.Unlock()
	if finished.IsZero() {
		t.Fatalf("finish time not recorded")
	}
}
