// Package roles implements the player agent catalogue: eight AI behaviours
// plus the interactive Human seat. Agents read the world through a shared
// GameState view, keep their role-private memory to themselves and submit
// phase intents to the moderator through the Arbiter capability surface.
package roles

import (
	"io"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Arbiter is the moderator as seen from an agent: intent submission plus the
// read-only status queries a role is entitled to. Implementations must be
// safe for concurrent calls.
type Arbiter interface {
	SubmitDayVote(voter, target core.PlayerID)
	MafiaVoteTarget(mafiaID, target core.PlayerID)
	SetDetectiveShot(detectiveID, target core.PlayerID)
	SetDoctorHeal(doctorID, target core.PlayerID)
	SetManiacTarget(maniacID, target core.PlayerID)
	SetJournalistCompare(journalistID, a, b core.PlayerID)
	SetEavesdropperTarget(eavesdropperID, target core.PlayerID)

	// Investigate answers whether target is an alive mafioso. The Maniac
	// reads as not-mafia.
	Investigate(detectiveID, target core.PlayerID) bool

	LogInfo(msg string)
}

// Agent is one player seat. The engine calls the three phase hooks between
// the matching barrier pairs; everything else an agent does goes through the
// Arbiter.
type Agent interface {
	ID() core.PlayerID
	Name() string

	OnDay(m Arbiter)
	VoteDay(m Arbiter) core.PlayerID
	OnNight(m Arbiter)
}

// ExecutionDecider is the Executioner's tie-break capability. The moderator
// asks alive Executioners in id order when a day vote ties under the "none"
// tie policy. ok=false means abstain.
type ExecutionDecider interface {
	DecideExecution(m Arbiter, leaders []core.PlayerID) (victim core.PlayerID, ok bool)
}

// New builds the AI agent for a role.
func New(role core.Role, id core.PlayerID, name string, state *core.GameState, rng *core.Rng) Agent {
	switch role {
	case core.RoleMafia:
		return NewMafia(id, name, state, rng)
	case core.RoleDetective:
		return NewDetective(id, name, state, rng)
	case core.RoleDoctor:
		return NewDoctor(id, name, state, rng)
	case core.RoleManiac:
		return NewManiac(id, name, state, rng)
	case core.RoleExecutioner:
		return NewExecutioner(id, name, state, rng)
	case core.RoleJournalist:
		return NewJournalist(id, name, state, rng)
	case core.RoleEavesdropper:
		return NewEavesdropper(id, name, state, rng)
	default:
		return NewCitizen(id, name, state, rng)
	}
}

// NewInteractive builds the Human agent for a seat, regardless of role.
func NewInteractive(id core.PlayerID, name string, state *core.GameState, rng *core.Rng, in io.Reader, out io.Writer) Agent {
	return NewHuman(id, name, state, rng, in, out)
}
