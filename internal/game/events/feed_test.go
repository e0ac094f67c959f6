package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

func TestFeed_EmitReachesSinksInAttachOrder(t *testing.T) {
	feed := NewFeed(zerolog.Nop())

	var order []string
	feed.Attach(func(Event) { order = append(order, "first") })
	feed.Attach(func(Event) { order = append(order, "second") })

	feed.Emit(NewPhaseStarted("m1", core.PhaseDay, 1))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestFeed_NilFeedAndNilSinkAreNoOps(t *testing.T) {
	var feed *Feed
	assert.NotPanics(t, func() {
		feed.Attach(func(Event) {})
		feed.Emit(NewMatchStarted("m1", 9, false))
	})

	withNilSink := NewFeed(zerolog.Nop())
	withNilSink.Attach(nil)
	assert.NotPanics(t, func() {
		withNilSink.Emit(NewMatchStarted("m1", 9, false))
	})
}

func TestFeed_PanickingSinkDoesNotStarveOthers(t *testing.T) {
	feed := NewFeed(zerolog.Nop())

	called := false
	feed.Attach(func(Event) { panic("boom") })
	feed.Attach(func(Event) { called = true })

	assert.NotPanics(t, func() {
		feed.Emit(NewMatchEnded("m1", core.WinnerMafia, 3))
	})
	assert.True(t, called)
}

func TestEventConstructors(t *testing.T) {
	died := NewPlayerDied("m1", 3, "Player_4", core.RoleDoctor, "night", 2)
	assert.Equal(t, PlayerDied, died.Kind)
	assert.Equal(t, "m1", died.Match)
	assert.Equal(t, core.PlayerID(3), died.Player)
	assert.Equal(t, core.RoleDoctor, died.Role)
	assert.Equal(t, "night", died.Cause)
	assert.Equal(t, 2, died.Round)
	assert.False(t, died.At.IsZero())

	lynch := NewLynchResolved("m1", 0, false, 1)
	assert.Equal(t, LynchResolved, lynch.Kind)
	assert.False(t, lynch.HasVictim)

	ended := NewMatchEnded("m1", core.WinnerTown, 5)
	assert.Equal(t, core.WinnerTown, ended.Winner)
	assert.Equal(t, 5, ended.Round)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "match_started", MatchStarted.String())
	assert.Equal(t, "phase_started", PhaseStarted.String())
	assert.Equal(t, "lynch_resolved", LynchResolved.String())
	assert.Equal(t, "player_died", PlayerDied.String())
	assert.Equal(t, "match_ended", MatchEnded.String())
}

func TestLogSink_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	sink := NewLogSink(logger)
	sink(NewPlayerDied("m1", 2, "Player_3", core.RoleMafia, "lynch", 1))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "player_died", line["event"])
	assert.Equal(t, "m1", line["match_id"])
	assert.Equal(t, float64(3), line["player"]) // 1-based, like the transcripts
	assert.Equal(t, "Mafia", line["role"])
	assert.Equal(t, "lynch", line["cause"])
}

func TestLogSink_PhaseAndWinnerFields(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	sink(NewPhaseStarted("m1", core.PhaseNight, 4))
	sink(NewMatchEnded("m1", core.WinnerManiac, 4))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"phase":"Night"`)
	assert.Contains(t, lines[1], `"winner":"Maniac"`)
}

func TestJSONSink_OneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	sink(NewMatchStarted("m1", 9, true))
	sink(NewLynchResolved("m1", 6, true, 2))
	sink(NewLynchResolved("m1", 0, false, 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var started map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &started))
	assert.Equal(t, "match_started", started["event"])
	assert.Equal(t, float64(9), started["players"])
	assert.Equal(t, true, started["human"])

	var lynch map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &lynch))
	assert.Equal(t, "lynch_resolved", lynch["event"])
	assert.Equal(t, float64(7), lynch["player"]) // 1-based

	// A no-lynch day elides the player field entirely.
	var noLynch map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &noLynch))
	_, hasPlayer := noLynch["player"]
	assert.False(t, hasPlayer)
}
