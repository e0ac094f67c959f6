// Package events carries the observable match feed: the moderator and the
// engines emit one flat record per notable occurrence (phase openings,
// lynches, deaths, the terminal outcome), and any number of sinks consume
// them. The feed is observability plumbing only; no game rule reads it.
package events

import (
	"time"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Kind tags what an Event describes.
type Kind int

const (
	MatchStarted Kind = iota
	PhaseStarted
	LynchResolved
	PlayerDied
	MatchEnded
)

func (k Kind) String() string {
	switch k {
	case MatchStarted:
		return "match_started"
	case PhaseStarted:
		return "phase_started"
	case LynchResolved:
		return "lynch_resolved"
	case PlayerDied:
		return "player_died"
	case MatchEnded:
		return "match_ended"
	}
	return "unknown"
}

// Event is one match occurrence. Only the fields relevant to its Kind are
// populated; the rest stay at their zero values.
type Event struct {
	Kind  Kind
	Match string
	At    time.Time

	Round      int
	Phase      core.Phase
	Player     core.PlayerID
	Name       string
	Role       core.Role
	Cause      string
	Winner     core.Winner
	HasVictim  bool
	NumPlayers int
	Human      bool
}

// NewMatchStarted reports the agent population coming up.
func NewMatchStarted(match string, numPlayers int, human bool) Event {
	return Event{
		Kind:       MatchStarted,
		Match:      match,
		At:         time.Now(),
		NumPlayers: numPlayers,
		Human:      human,
	}
}

// NewPhaseStarted reports a Day or Night phase opening.
func NewPhaseStarted(match string, phase core.Phase, round int) Event {
	return Event{
		Kind:  PhaseStarted,
		Match: match,
		At:    time.Now(),
		Phase: phase,
		Round: round,
	}
}

// NewLynchResolved reports the outcome of a day vote, lynch or not.
func NewLynchResolved(match string, victim core.PlayerID, hasVictim bool, round int) Event {
	return Event{
		Kind:      LynchResolved,
		Match:     match,
		At:        time.Now(),
		Player:    victim,
		HasVictim: hasVictim,
		Round:     round,
	}
}

// NewPlayerDied reports one death, day or night.
func NewPlayerDied(match string, player core.PlayerID, name string, role core.Role, cause string, round int) Event {
	return Event{
		Kind:   PlayerDied,
		Match:  match,
		At:     time.Now(),
		Player: player,
		Name:   name,
		Role:   role,
		Cause:  cause,
		Round:  round,
	}
}

// NewMatchEnded reports the terminal outcome.
func NewMatchEnded(match string, winner core.Winner, rounds int) Event {
	return Event{
		Kind:   MatchEnded,
		Match:  match,
		At:     time.Now(),
		Winner: winner,
		Round:  rounds,
	}
}
