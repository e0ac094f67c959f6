package roles

import (
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Doctor heals one target each night, self included, but never the same
// target two nights in a row.
type Doctor struct {
	base
	prevHeal    core.PlayerID
	prevHealSet bool
}

func NewDoctor(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Doctor {
	return &Doctor{base: newBase(id, name, state, rng)}
}

func (d *Doctor) OnDay(Arbiter) {}

func (d *Doctor) VoteDay(Arbiter) core.PlayerID {
	return d.randomAliveExceptSelf()
}

func (d *Doctor) OnNight(mod Arbiter) {
	candidates := make([]core.PlayerID, 0, d.state.NumPlayers())
	for _, id := range d.state.AliveIDs() {
		if d.prevHealSet && id == d.prevHeal {
			continue
		}
		candidates = append(candidates, id)
	}

	target, ok := d.rng.ChooseID(candidates)
	if !ok {
		mod.LogInfo("Night: doctor skips heal (no alternative to avoid consecutive heal)")
		d.prevHealSet = false
		return
	}

	mod.SetDoctorHeal(d.id, target)
	d.prevHeal = target
	d.prevHealSet = true
}
