package game

import (
	"fmt"
	"io"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/roles"
)

// buildMatch populates the player arena from the shuffled role bag, derives
// the per-agent RNG streams and constructs one agent per seat. With
// cfg.Human one uniformly chosen seat becomes the interactive agent.
func buildMatch(cfg Config, state *core.GameState, rng *core.Rng, in io.Reader, out io.Writer) ([]roles.Agent, []*core.Rng, error) {
	bag, err := cfg.roleBag()
	if err != nil {
		return nil, nil, fmt.Errorf("role census: %w", err)
	}

	rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })

	humanIdx := -1
	if cfg.Human && len(bag) > 0 {
		humanIdx = rng.IntN(len(bag))
	}

	agentRngs := make([]*core.Rng, len(bag))
	for i := range bag {
		if cfg.Seed == 0 {
			agentRngs[i] = core.NewRng(0)
		} else {
			agentRngs[i] = core.NewRng(core.AgentSeed(cfg.Seed, i))
		}
	}

	state.Players = make([]core.Player, len(bag))
	for i, role := range bag {
		name := fmt.Sprintf("Player_%d", i+1)
		if i == humanIdx {
			name = "You"
		}
		state.Players[i] = core.Player{
			ID:    core.PlayerID(i),
			Name:  name,
			Role:  role,
			Team:  role.TeamOf(),
			Alive: true,
		}
	}

	agents := make([]roles.Agent, len(bag))
	for i, role := range bag {
		id := core.PlayerID(i)
		if i == humanIdx {
			agents[i] = roles.NewInteractive(id, state.Players[i].Name, state, agentRngs[i], in, out)
			continue
		}
		agents[i] = roles.New(role, id, state.Players[i].Name, state, agentRngs[i])
	}

	return agents, agentRngs, nil
}

// ensureValidDayTarget sanitises an agent's day vote: an invalid or
// self-directed target is replaced with a uniform alive non-self pick from
// the agent's own RNG. Falls back to the voter itself only when nobody else
// is alive.
func ensureValidDayTarget(voter, wanted core.PlayerID, state *core.GameState, rng *core.Rng) core.PlayerID {
	if wanted != voter && state.IsAlive(wanted) {
		return wanted
	}
	ids := make([]core.PlayerID, 0, state.NumPlayers())
	for _, id := range state.AliveIDs() {
		if id != voter {
			ids = append(ids, id)
		}
	}
	if id, ok := rng.ChooseID(ids); ok {
		return id
	}
	return voter
}
