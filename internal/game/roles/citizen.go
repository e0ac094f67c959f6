package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Citizen votes against a uniform alive target by day and sleeps at night.
type Citizen struct {
	base
}

func NewCitizen(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Citizen {
	return &Citizen{base: newBase(id, name, state, rng)}
}

func (c *Citizen) OnDay(Arbiter) {}

func (c *Citizen) VoteDay(Arbiter) core.PlayerID {
	return c.randomAliveExceptSelf()
}

func (c *Citizen) OnNight(Arbiter) {}
