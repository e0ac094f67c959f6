package game

import (
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/barrier"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/events"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/roles"
)

// ErrHumanNotSupported is returned when the cooperative backend is asked to
// host the interactive agent, whose blocking console I/O would stall the
// single-threaded driver. The configuration layer downgrades that
// combination to the threaded backend instead.
var ErrHumanNotSupported = errors.New("cooperative backend does not support the interactive human agent")

// CoroEngine is the cooperative backend: strictly single-threaded, one
// hand-written state machine per agent, resumed from a ready queue. Each
// barrier has exactly N parties; the moderator's work runs inside the
// barriers' completion callbacks.
type CoroEngine struct {
	cfg       Config
	logger    zerolog.Logger
	feed      *events.Feed
	matchID   string
	rng       *core.Rng
	state     *core.GameState
	moderator *Moderator
	agents    []roles.Agent
	agentRngs []*core.Rng

	dayStart   *barrier.Coop
	dayEnd     *barrier.Coop
	nightStart *barrier.Coop
	nightEnd   *barrier.Coop

	ready []func()
	stop  bool
}

// NewCoroEngine builds the cooperative backend for cfg.
func NewCoroEngine(cfg Config, logger zerolog.Logger) (*CoroEngine, error) {
	if cfg.Human {
		return nil, ErrHumanNotSupported
	}

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

	e := &CoroEngine{
		cfg:       cfg,
		logger:    logger.With().Str("component", "engine_coro").Logger(),
		feed:      feed,
		matchID:   matchID,
		rng:       rng,
		state:     state,
		moderator: moderator,
		agents:    agents,
		agentRngs: agentRngs,
	}

	e.logger.Info().Int("players", len(agents)).Msg("Players initialized")
	return e, nil
}

// State returns the world state. Intended for inspection after Run.
func (e *CoroEngine) State() *core.GameState { return e.state }

// Moderator returns the match arbiter.
func (e *CoroEngine) Moderator() *Moderator { return e.moderator }

// Feed returns the match event feed so callers can attach sinks before Run.
func (e *CoroEngine) Feed() *events.Feed { return e.feed }

// Run plays the match to its terminal outcome on the calling goroutine.
func (e *CoroEngine) Run() error {
	n := len(e.agents)
	if n == 0 {
		e.logger.Warn().Msg("No players to run")
		return nil
	}

	schedule := func(k func()) { e.ready = append(e.ready, k) }
	e.dayStart = barrier.NewCoop(n, schedule)
	e.dayEnd = barrier.NewCoop(n, schedule)
	e.nightStart = barrier.NewCoop(n, schedule)
	e.nightEnd = barrier.NewCoop(n, schedule)

	e.dayStart.SetOnComplete(func() {
		e.state.SetPhase(core.PhaseDay)
		e.moderator.BeginDay()
		e.feed.Emit(events.NewPhaseStarted(e.matchID, core.PhaseDay, e.moderator.RoundIndex()))
	})
	e.dayEnd.SetOnComplete(func() {
		e.moderator.ResolveDayLynch()
		if e.checkEndConditions() {
			e.stop = true
			return
		}
		e.state.SetPhase(core.PhaseNight)
		e.feed.Emit(events.NewPhaseStarted(e.matchID, core.PhaseNight, e.moderator.RoundIndex()))
	})
	e.nightEnd.SetOnComplete(func() {
		e.moderator.ResolveNight()
		if e.checkEndConditions() {
			e.stop = true
			return
		}
		e.state.NextRound()
	})

	e.feed.Emit(events.NewMatchStarted(e.matchID, n, false))

	// Seed the ready queue with every agent task, then drain. Barrier
	// completions push released continuations back onto the queue in
	// insertion order.
	tasks := make([]*coopTask, n)
	for i := range tasks {
		t := &coopTask{e: e, idx: i}
		tasks[i] = t
		e.ready = append(e.ready, t.start)
	}

	for len(e.ready) > 0 {
		k := e.ready[0]
		e.ready = e.ready[1:]
		k()
	}

	finished := 0
	for _, t := range tasks {
		if t.done {
			finished++
		}
	}
	e.logger.Debug().Int("finished_tasks", finished).Msg("Driver drained")

	// Close a round file left pending by a finish during Day.
	e.moderator.FinalizeRoundFileIfPending()
	return nil
}

func (e *CoroEngine) checkEndConditions() bool {
	w := e.moderator.EvaluateWinner()
	if w == core.WinnerNone {
		return false
	}
	e.state.SetGameOver(w)
	e.logger.Info().Str("winner", w.String()).Msg("Game over")

	e.moderator.FinalizeRoundFileIfPending()
	e.moderator.WriteSummaryFile()
	e.feed.Emit(events.NewMatchEnded(e.matchID, w, e.moderator.RoundIndex()))
	return true
}

// coopTask is one agent's round loop written as a state machine: each step
// runs until the next barrier arrival, parking the following step as the
// continuation.
type coopTask struct {
	e    *CoroEngine
	idx  int
	done bool
}

func (t *coopTask) start() {
	t.e.dayStart.Arrive(t.day)
}

func (t *coopTask) day() {
	if t.e.stop {
		t.done = true
		return
	}
	id := core.PlayerID(t.idx)
	if t.e.state.IsAlive(id) {
		agent := t.e.agents[t.idx]
		agent.OnDay(t.e.moderator)
		raw := agent.VoteDay(t.e.moderator)
		target := ensureValidDayTarget(id, raw, t.e.state, t.e.agentRngs[t.idx])
		t.e.moderator.SubmitDayVote(id, target)
	}
	t.e.dayEnd.Arrive(t.night)
}

func (t *coopTask) night() {
	if t.e.stop {
		t.done = true
		return
	}
	t.e.nightStart.Arrive(t.nightAction)
}

func (t *coopTask) nightAction() {
	if t.e.stop {
		t.done = true
		return
	}
	id := core.PlayerID(t.idx)
	if t.e.state.IsAlive(id) {
		t.e.agents[t.idx].OnNight(t.e.moderator)
	}
	t.e.nightEnd.Arrive(t.nextRound)
}

func (t *coopTask) nextRound() {
	if t.e.stop {
		t.done = true
		return
	}
	t.e.dayStart.Arrive(t.day)
}
