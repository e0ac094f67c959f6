package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// base carries the fields and target-selection helpers every agent shares.
// The state pointer is a non-owning read-only view; the rng is private to
// the agent.
type base struct {
	id    core.PlayerID
	name  string
	state *core.GameState
	rng   *core.Rng
}

func newBase(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) base {
	return base{id: id, name: name, state: state, rng: rng}
}

func (b *base) ID() core.PlayerID { return b.id }
func (b *base) Name() string      { return b.name }

func (b *base) alive() bool { return b.state.IsAlive(b.id) }

func (b *base) aliveExceptSelf() []core.PlayerID {
	ids := make([]core.PlayerID, 0, b.state.NumPlayers())
	for _, id := range b.state.AliveIDs() {
		if id != b.id {
			ids = append(ids, id)
		}
	}
	return ids
}

// randomAliveExceptSelf returns a uniform alive target != self, or self when
// nobody else is alive.
func (b *base) randomAliveExceptSelf() core.PlayerID {
	id, ok := b.rng.ChooseID(b.aliveExceptSelf())
	if !ok {
		return b.id
	}
	return id
}

// randomAliveTownExceptSelf prefers an alive Town target != self, falling
// back to any alive non-self target.
func (b *base) randomAliveTownExceptSelf() core.PlayerID {
	ids := make([]core.PlayerID, 0, b.state.NumPlayers())
	for _, id := range b.state.AliveIDs() {
		if id != b.id && b.state.Players[id].Team == core.TeamTown {
			ids = append(ids, id)
		}
	}
	if id, ok := b.rng.ChooseID(ids); ok {
		return id
	}
	return b.randomAliveExceptSelf()
}
