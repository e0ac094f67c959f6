package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Executioner acts only when a day vote ties: the moderator asks it to pick
// one of the tied leaders or abstain. Otherwise it behaves like a citizen.
type Executioner struct {
	base
}

func NewExecutioner(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Executioner {
	return &Executioner{base: newBase(id, name, state, rng)}
}

func (e *Executioner) OnDay(Arbiter) {}

func (e *Executioner) VoteDay(Arbiter) core.PlayerID {
	return e.randomAliveExceptSelf()
}

func (e *Executioner) OnNight(Arbiter) {}

// DecideExecution abstains with probability 1/2, otherwise picks a uniform
// leader. Dead Executioners always abstain.
func (e *Executioner) DecideExecution(_ Arbiter, leaders []core.PlayerID) (core.PlayerID, bool) {
	if !e.alive() || len(leaders) == 0 {
		return 0, false
	}
	if !e.rng.Coin() {
		return 0, false
	}
	victim, ok := e.rng.ChooseID(leaders)
	return victim, ok
}
