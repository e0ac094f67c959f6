package testutil

import (
	"fmt"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// NewTestState builds a populated arena from a role list; names follow the
// engine convention Player_<idx+1> and everybody starts alive.
func NewTestState(roleList ...core.Role) *core.GameState {
	st := core.NewGameState()
	st.Players = make([]core.Player, len(roleList))
	for i, r := range roleList {
		st.Players[i] = core.Player{
			ID:    core.PlayerID(i),
			Name:  fmt.Sprintf("Player_%d", i+1),
			Role:  r,
			Team:  r.TeamOf(),
			Alive: true,
		}
	}
	return st
}

// ClassicFiveSeats is the smallest legal census: one of each mandatory role
// plus a single citizen.
func ClassicFiveSeats() *core.GameState {
	return NewTestState(
		core.RoleMafia,
		core.RoleDetective,
		core.RoleDoctor,
		core.RoleManiac,
		core.RoleCitizen,
	)
}
