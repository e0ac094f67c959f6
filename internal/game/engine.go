// Package game hosts the turn engine: the Moderator that arbitrates intents
// and the two interchangeable execution backends, one pre-emptive
// (goroutine-per-agent) and one cooperative, both driven by the same four
// phase barriers and one resolution core.
package game

import (
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/barrier"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/events"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/roles"
)

// Engine is the pre-emptive backend: one goroutine per agent plus the
// moderator goroutine driving the main loop, all meeting at four reusable
// barriers per round. Every barrier has N+1 parties.
type Engine struct {
	cfg       Config
	logger    zerolog.Logger
	feed      *events.Feed
	matchID   string
	rng       *core.Rng
	state     *core.GameState
	moderator *Moderator
	agents    []roles.Agent
	agentRngs []*core.Rng

	dayStart   *barrier.Barrier
	dayEnd     *barrier.Barrier
	nightStart *barrier.Barrier
	nightEnd   *barrier.Barrier

	stop atomic.Bool
}

// NewEngine builds the threaded backend for cfg. A role census that exceeds
// the player count fails construction.
func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	matchID := uuid.NewString()
	logger = logger.With().Str("match_id", matchID).Logger()

	feed := events.NewFeed(logger)
	feed.Attach(events.NewLogSink(logger))

	rng := core.NewRng(cfg.Seed)
	state := core.NewGameState()

	agents, agentRngs, err := buildMatch(cfg, state, rng, os.Stdin, os.Stdout)
	if err != nil {
		return nil, err
	}

	moderator := NewModerator(cfg, state, rng, logger, feed, matchID)
	moderator.BindAgents(agents)

	e := &Engine{
		cfg:       cfg,
		logger:    logger.With().Str("component", "engine").Logger(),
		feed:      feed,
		matchID:   matchID,
		rng:       rng,
		state:     state,
		moderator: moderator,
		agents:    agents,
		agentRngs: agentRngs,
	}

	e.logger.Info().
		Int("players", len(agents)).
		Bool("human", cfg.Human).
		Msg("Players initialized")
	return e, nil
}

// State returns the world state. Intended for inspection after Run.
func (e *Engine) State() *core.GameState { return e.state }

// Moderator returns the match arbiter.
func (e *Engine) Moderator() *Moderator { return e.moderator }

// Feed returns the match event feed so callers can attach sinks before Run.
func (e *Engine) Feed() *events.Feed { return e.feed }

// Run plays the match to its terminal outcome. The moderator goroutine (the
// caller) resolves each phase between the paired barriers; agent goroutines
// run the symmetric loop and exit cooperatively once stop is set.
func (e *Engine) Run() error {
	n := len(e.agents)
	parties := n + 1 // agents + moderator

	e.dayStart = barrier.New(parties, nil)
	e.dayEnd = barrier.New(parties, nil)
	e.nightStart = barrier.New(parties, nil)
	e.nightEnd = barrier.New(parties, nil)

	e.feed.Emit(events.NewMatchStarted(e.matchID, n, e.cfg.Human))

	var g errgroup.Group
	for i := range e.agents {
		g.Go(func() error {
			e.agentLoop(i)
			return nil
		})
	}

	for !e.stop.Load() && !e.state.GameOver {
		e.state.SetPhase(core.PhaseDay)
		e.moderator.BeginDay()
		e.feed.Emit(events.NewPhaseStarted(e.matchID, core.PhaseDay, e.moderator.RoundIndex()))
		e.dayStart.Arrive()
		e.dayEnd.Arrive()
		e.moderator.ResolveDayLynch()
		if e.checkEndConditions() {
			break
		}

		e.state.SetPhase(core.PhaseNight)
		e.feed.Emit(events.NewPhaseStarted(e.matchID, core.PhaseNight, e.moderator.RoundIndex()))
		e.nightStart.Arrive()
		e.nightEnd.Arrive()
		e.moderator.ResolveNight()
		if e.checkEndConditions() {
			break
		}

		e.state.NextRound()
	}

	e.shutdown()
	return g.Wait()
}

// shutdown releases any agent still parked at a barrier: once stop is set,
// dropping the moderator from all four barriers guarantees every agent
// observes stop at its next wait.
func (e *Engine) shutdown() {
	e.stop.Store(true)
	e.dayStart.ArriveAndDrop()
	e.dayEnd.ArriveAndDrop()
	e.nightStart.ArriveAndDrop()
	e.nightEnd.ArriveAndDrop()
}

func (e *Engine) checkEndConditions() bool {
	w := e.moderator.EvaluateWinner()
	if w == core.WinnerNone {
		return false
	}
	e.state.SetGameOver(w)
	e.logger.Info().Str("winner", w.String()).Msg("Game over")

	// Close a round that terminated during Day, then write the summary.
	e.moderator.FinalizeRoundFileIfPending()
	e.moderator.WriteSummaryFile()
	e.feed.Emit(events.NewMatchEnded(e.matchID, w, e.moderator.RoundIndex()))
	return true
}

func (e *Engine) agentLoop(idx int) {
	id := core.PlayerID(idx)
	agent := e.agents[idx]

	for {
		e.dayStart.Arrive()
		if e.stop.Load() {
			return
		}

		if e.state.IsAlive(id) {
			agent.OnDay(e.moderator)
			raw := agent.VoteDay(e.moderator)
			target := ensureValidDayTarget(id, raw, e.state, e.agentRngs[idx])
			e.moderator.SubmitDayVote(id, target)
		}

		e.dayEnd.Arrive()
		if e.stop.Load() {
			return
		}

		e.nightStart.Arrive()
		if e.stop.Load() {
			return
		}

		if e.state.IsAlive(id) {
			agent.OnNight(e.moderator)
		}

		e.nightEnd.Arrive()
		if e.stop.Load() {
			return
		}
	}
}
