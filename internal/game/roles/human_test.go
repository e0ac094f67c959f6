package roles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/testutil"
)

func newHumanSeat(t *testing.T, role core.Role, input string) (*Human, *fakeArbiter, *bytes.Buffer) {
	t.Helper()
	st := testutil.NewTestState(role, core.RoleCitizen, core.RoleMafia, core.RoleDoctor)
	out := &bytes.Buffer{}
	h := NewHuman(0, "You", st, testutil.NewTestRNG(1), strings.NewReader(input), out)
	return h, &fakeArbiter{state: st}, out
}

func TestHuman_VoteDayReadsChoice(t *testing.T) {
	h, mod, out := newHumanSeat(t, core.RoleCitizen, "2\n")

	target := h.VoteDay(mod)

	// Candidates are the alive non-self seats 1,2,3; choice 2 is seat #2.
	assert.Equal(t, core.PlayerID(2), target)
	assert.Contains(t, out.String(), "Pick who to vote against")
}

func TestHuman_VoteDayRepromptsOnGarbage(t *testing.T) {
	h, mod, out := newHumanSeat(t, core.RoleCitizen, "zzz\n9\n1\n")

	target := h.VoteDay(mod)

	assert.Equal(t, core.PlayerID(1), target)
	assert.Contains(t, out.String(), "Invalid input")
	assert.Contains(t, out.String(), "Out of range")
}

func TestHuman_ManiacNightSubmitsKill(t *testing.T) {
	h, mod, _ := newHumanSeat(t, core.RoleManiac, "3\n")

	h.OnNight(mod)

	require.Len(t, mod.maniacKills, 1)
	assert.Equal(t, core.PlayerID(3), mod.maniacKills[0])
}

func TestHuman_DetectiveZeroHoldsFire(t *testing.T) {
	h, mod, _ := newHumanSeat(t, core.RoleDetective, "0\n")

	h.OnNight(mod)

	assert.Empty(t, mod.detShots)
}

func TestHuman_JournalistPicksTwoDistinct(t *testing.T) {
	h, mod, _ := newHumanSeat(t, core.RoleJournalist, "1\n1\n")

	h.OnNight(mod)

	require.Len(t, mod.compares, 1)
	// Second prompt lists the remaining candidates, so "1" twice still
	// yields two distinct targets.
	assert.NotEqual(t, mod.compares[0][0], mod.compares[0][1])
}

func TestHuman_DecideExecution(t *testing.T) {
	h, mod, _ := newHumanSeat(t, core.RoleExecutioner, "2\n")
	leaders := []core.PlayerID{1, 3}

	victim, ok := h.DecideExecution(mod, leaders)

	require.True(t, ok)
	assert.Equal(t, core.PlayerID(3), victim)
}

func TestHuman_DecideExecutionAbstain(t *testing.T) {
	h, mod, _ := newHumanSeat(t, core.RoleExecutioner, "0\n")

	_, ok := h.DecideExecution(mod, []core.PlayerID{1, 3})

	assert.False(t, ok)
}

func TestHuman_EOFAbstains(t *testing.T) {
	h, mod, _ := newHumanSeat(t, core.RoleMafia, "")

	h.OnNight(mod)
	assert.Empty(t, mod.mafiaVotes)

	// The day vote falls back to self; the engine sanitises it.
	assert.Equal(t, core.PlayerID(0), h.VoteDay(mod))
}
