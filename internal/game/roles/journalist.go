package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Journalist compares two distinct targets each night and learns (via the
// round journal) whether their teams match. It needs at least two alive
// non-self targets to act.
type Journalist struct {
	base
}

func NewJournalist(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Journalist {
	return &Journalist{base: newBase(id, name, state, rng)}
}

func (j *Journalist) OnDay(Arbiter) {}

func (j *Journalist) VoteDay(Arbiter) core.PlayerID {
	return j.randomAliveExceptSelf()
}

func (j *Journalist) OnNight(mod Arbiter) {
	candidates := j.aliveExceptSelf()
	if len(candidates) < 2 {
		return
	}

	a, _ := j.rng.ChooseID(candidates)
	b := a
	for b == a {
		b, _ = j.rng.ChooseID(candidates)
	}

	mod.SetJournalistCompare(j.id, a, b)
}
