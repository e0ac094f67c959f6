package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Maniac is a lone killer: one uniform kill target each night.
type Maniac struct {
	base
}

func NewManiac(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Maniac {
	return &Maniac{base: newBase(id, name, state, rng)}
}

func (m *Maniac) OnDay(Arbiter) {}

func (m *Maniac) VoteDay(Arbiter) core.PlayerID {
	return m.randomAliveExceptSelf()
}

func (m *Maniac) OnNight(mod Arbiter) {
	target := m.randomAliveExceptSelf()
	if target == m.id {
		mod.LogInfo("Night: maniac has no non-self targets alive; action skipped")
		return
	}
	mod.SetManiacTarget(m.id, target)
}
