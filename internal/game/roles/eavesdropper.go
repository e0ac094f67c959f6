package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Eavesdropper observes one target each night and learns (via the round
// journal) which night actions named that target.
type Eavesdropper struct {
	base
}

func NewEavesdropper(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Eavesdropper {
	return &Eavesdropper{base: newBase(id, name, state, rng)}
}

func (e *Eavesdropper) OnDay(Arbiter) {}

func (e *Eavesdropper) VoteDay(Arbiter) core.PlayerID {
	return e.randomAliveExceptSelf()
}

func (e *Eavesdropper) OnNight(mod Arbiter) {
	target, ok := e.rng.ChooseID(e.aliveExceptSelf())
	if !ok {
		return
	}
	mod.SetEavesdropperTarget(e.id, target)
}
