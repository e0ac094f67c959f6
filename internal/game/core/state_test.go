package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(roleList ...Role) *GameState {
	st := NewGameState()
	st.Players = make([]Player, len(roleList))
	for i, r := range roleList {
		st.Players[i] = Player{ID: PlayerID(i), Name: "p", Role: r, Team: r.TeamOf(), Alive: true}
	}
	return st
}

func TestRole_TeamAssignment(t *testing.T) {
	assert.Equal(t, TeamMafia, RoleMafia.TeamOf())
	assert.Equal(t, TeamManiac, RoleManiac.TeamOf())
	for _, r := range []Role{RoleCitizen, RoleDetective, RoleDoctor, RoleExecutioner, RoleJournalist, RoleEavesdropper} {
		assert.Equal(t, TeamTown, r.TeamOf(), "role %s must be Town", r)
	}
}

func TestGameState_KillIsMonotone(t *testing.T) {
	st := newState(RoleCitizen, RoleMafia)
	require.True(t, st.IsAlive(0))

	st.Kill(0)
	assert.False(t, st.IsAlive(0))

	// Killing again stays dead; there is no way back.
	st.Kill(0)
	assert.False(t, st.IsAlive(0))

	assert.Equal(t, []PlayerID{1}, st.AliveIDs())
}

func TestGameState_OutOfRangeIDs(t *testing.T) {
	st := newState(RoleCitizen)
	assert.False(t, st.IsAlive(-1))
	assert.False(t, st.IsAlive(5))
	st.Kill(5) // must not panic
	assert.Equal(t, 1, st.AliveCount())
}

func TestGameState_AliveTeamCount(t *testing.T) {
	st := newState(RoleMafia, RoleMafia, RoleCitizen, RoleManiac, RoleDetective)
	assert.Equal(t, 2, st.AliveTeamCount(TeamMafia))
	assert.Equal(t, 2, st.AliveTeamCount(TeamTown))
	assert.Equal(t, 1, st.AliveTeamCount(TeamManiac))

	st.Kill(0)
	assert.Equal(t, 1, st.AliveTeamCount(TeamMafia))
}

func TestGameState_RoundAndPhase(t *testing.T) {
	st := NewGameState()
	assert.Equal(t, 1, st.Round)

	st.NextRound()
	st.NextRound()
	assert.Equal(t, 3, st.Round)

	st.SetPhase(PhaseNight)
	assert.Equal(t, PhaseNight, st.Phase)

	st.SetGameOver(WinnerMafia)
	assert.True(t, st.GameOver)
	assert.Equal(t, WinnerMafia, st.Winner)
}
