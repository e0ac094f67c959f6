package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Mafia votes against Town by day when possible and casts one mafia kill
// vote each night. The moderator tallies all mafia votes and breaks ties
// with its own RNG.
type Mafia struct {
	base
}

func NewMafia(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Mafia {
	return &Mafia{base: newBase(id, name, state, rng)}
}

func (m *Mafia) OnDay(Arbiter) {}

func (m *Mafia) VoteDay(Arbiter) core.PlayerID {
	return m.randomAliveTownExceptSelf()
}

func (m *Mafia) OnNight(mod Arbiter) {
	target := m.randomAliveTownExceptSelf()
	if target == m.id {
		// No non-self target left; skip the vote this night.
		mod.LogInfo("Night: mafia has no non-self targets alive; vote skipped")
		return
	}
	mod.MafiaVoteTarget(m.id, target)
}
