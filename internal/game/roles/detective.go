package roles

import (
	"slices"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Detective accumulates confirmed mafiosi across nights. Each night it
// either shoots one of them (coin flip, when any are known) or investigates
// a fresh target; by day it votes against a known mafioso when it has one.
type Detective struct {
	base
	knownMafia []core.PlayerID
}

func NewDetective(id core.PlayerID, name string, state *core.GameState, rng *core.Rng) *Detective {
	return &Detective{base: newBase(id, name, state, rng)}
}

func (d *Detective) OnDay(Arbiter) {}

func (d *Detective) VoteDay(Arbiter) core.PlayerID {
	d.pruneKnownMafia()
	if id, ok := d.rng.ChooseID(d.knownMafia); ok {
		return id
	}
	return d.randomAliveExceptSelf()
}

func (d *Detective) OnNight(mod Arbiter) {
	d.pruneKnownMafia()

	if len(d.knownMafia) > 0 && d.rng.Coin() {
		target, _ := d.rng.ChooseID(d.knownMafia)
		mod.SetDetectiveShot(d.id, target)
		return
	}

	target := d.randomAliveExceptSelf()
	// Don't spend the investigation on an already-confirmed mafioso when an
	// alternative exists.
	if slices.Contains(d.knownMafia, target) {
		fresh := make([]core.PlayerID, 0, d.state.NumPlayers())
		for _, id := range d.aliveExceptSelf() {
			if !slices.Contains(d.knownMafia, id) {
				fresh = append(fresh, id)
			}
		}
		if id, ok := d.rng.ChooseID(fresh); ok {
			target = id
		}
	}

	if mod.Investigate(d.id, target) && !slices.Contains(d.knownMafia, target) {
		d.knownMafia = append(d.knownMafia, target)
	}
}

func (d *Detective) pruneKnownMafia() {
	d.knownMafia = slices.DeleteFunc(d.knownMafia, func(id core.PlayerID) bool {
		return !d.state.IsAlive(id)
	})
}
