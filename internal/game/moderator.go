package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/events"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/roles"
)

// JournalistQuery is one pending team comparison.
type JournalistQuery struct {
	Journalist core.PlayerID
	A, B       core.PlayerID
}

type eavesdropRequest struct {
	Eavesdropper core.PlayerID
	Target       core.PlayerID
}

// optTarget is a maybe-set player id (last-write-wins night intents).
type optTarget struct {
	id  core.PlayerID
	set bool
}

// Moderator is the single arbiter of a match. Agents submit phase intents
// concurrently; every mutating operation serialises on one mutex. At phase
// end the engine calls the resolve methods, which snapshot the buffers,
// apply the resolution rules, mutate world state and keep the round journal.
type Moderator struct {
	cfg     Config
	state   *core.GameState
	rng     *core.Rng
	logger  zerolog.Logger
	feed    *events.Feed
	matchID string
	agents  []roles.Agent

	mu sync.Mutex

	// Day buffers, cleared by BeginDay.
	dayVotes     []optTarget // indexed by voter; last vote wins
	dayVotedFlag []bool      // first vote of the day, for statistics

	// Night buffers, cleared at the end of ResolveNight.
	mafiaTally        []int
	detectiveShot     optTarget
	doctorHeal        optTarget
	maniacTarget      optTarget
	journalistQueries []JournalistQuery
	eavesdropRequests []eavesdropRequest

	// Per-player accumulators, kept for the whole match.
	statsVotesGiven    []int
	statsVotesRecv     []int
	statsMafiaVotes    []int
	statsDetShots      []int
	statsDocHeals      []int
	statsManiacTargets []int
	statsDiedRound     []int // 0 = still alive

	// Round journal.
	roundIndex   int
	roundWritten bool
	roundLog     strings.Builder
}

// NewModerator creates the arbiter for state. feed may be nil.
func NewModerator(cfg Config, state *core.GameState, rng *core.Rng, logger zerolog.Logger, feed *events.Feed, matchID string) *Moderator {
	n := state.NumPlayers()
	return &Moderator{
		cfg:                cfg,
		state:              state,
		rng:                rng,
		logger:             logger.With().Str("component", "moderator").Logger(),
		feed:               feed,
		matchID:            matchID,
		dayVotes:           make([]optTarget, n),
		dayVotedFlag:       make([]bool, n),
		mafiaTally:         make([]int, n),
		statsVotesGiven:    make([]int, n),
		statsVotesRecv:     make([]int, n),
		statsMafiaVotes:    make([]int, n),
		statsDetShots:      make([]int, n),
		statsDocHeals:      make([]int, n),
		statsManiacTargets: make([]int, n),
		statsDiedRound:     make([]int, n),
	}
}

// BindAgents hands the moderator the agent vector so it can reach the
// Executioner's tie-break capability. Called once after setup.
func (m *Moderator) BindAgents(agents []roles.Agent) {
	m.agents = agents
}

// RoundIndex returns the current round number of the journal.
func (m *Moderator) RoundIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundIndex
}

func (m *Moderator) tag(id core.PlayerID) string {
	return fmt.Sprintf("#%d %s", int(id)+1, m.state.Players[id].Name)
}

// ---------- Day ----------

// BeginDay opens a new round: clears the day buffers, advances the journal
// round and writes the alive-roster header.
func (m *Moderator) BeginDay() {
	m.mu.Lock()
	for i := range m.dayVotes {
		m.dayVotes[i] = optTarget{}
		m.dayVotedFlag[i] = false
	}
	m.roundBeginDayLocked()
	round := m.roundIndex
	m.mu.Unlock()

	m.logger.Info().Int("round", round).Msg("Day begins")
}

// SubmitDayVote records one day vote, last vote per voter winning. Invalid
// submissions are dropped silently.
func (m *Moderator) SubmitDayVote(voter, target core.PlayerID) {
	if !m.state.IsAlive(voter) || !m.state.IsAlive(target) {
		return
	}

	m.mu.Lock()
	if !m.dayVotedFlag[voter] {
		m.dayVotedFlag[voter] = true
		m.statsVotesGiven[voter]++
	}
	m.dayVotes[voter] = optTarget{id: target, set: true}
	m.roundAppend(fmt.Sprintf("DAY: vote %s -> %s\n", m.tag(voter), m.tag(target)))
	m.mu.Unlock()

	if m.cfg.FullLog {
		m.logger.Info().
			Int("voter", int(voter)+1).
			Int("target", int(target)+1).
			Msg("Day vote")
	}
}

// ResolveDayLynch counts final votes from alive voters to alive targets and
// applies the lynch, the tie policy or the Executioner's decision. Returns
// the victim if somebody was lynched.
func (m *Moderator) ResolveDayLynch() (core.PlayerID, bool) {
	n := m.state.NumPlayers()

	m.mu.Lock()
	votes := make([]optTarget, n)
	copy(votes, m.dayVotes)
	round := m.roundIndex
	m.mu.Unlock()

	if m.cfg.FullLog {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			if !m.state.IsAlive(core.PlayerID(i)) {
				continue
			}
			fmt.Fprintf(&sb, " #%d->", i+1)
			if votes[i].set {
				fmt.Fprintf(&sb, "#%d", int(votes[i].id)+1)
			} else {
				sb.WriteString("-")
			}
		}
		m.logger.Info().Str("votes", strings.TrimSpace(sb.String())).Msg("Day votes")
	}

	tally := make([]int, n)
	for v := 0; v < n; v++ {
		if !m.state.IsAlive(core.PlayerID(v)) || !votes[v].set {
			continue
		}
		t := votes[v].id
		if !m.state.IsAlive(t) {
			continue
		}
		tally[t]++
	}

	m.mu.Lock()
	for i := 0; i < n; i++ {
		m.statsVotesRecv[i] += tally[i]
	}
	m.mu.Unlock()

	maxVotes := 0
	for _, c := range tally {
		maxVotes = max(maxVotes, c)
	}
	if maxVotes == 0 {
		m.logger.Info().Msg("Day: no valid votes; nobody is lynched")
		m.appendLine("DAY: no lynch\n")
		m.feed.Emit(events.NewLynchResolved(m.matchID, 0, false, round))
		return 0, false
	}

	var leaders []core.PlayerID
	for i := 0; i < n; i++ {
		if tally[i] == maxVotes {
			leaders = append(leaders, core.PlayerID(i))
		}
	}

	if len(leaders) > 1 {
		switch m.cfg.TiePolicy {
		case core.TieNone:
			victim, ok := m.resolveTieViaExecutioner(leaders)
			if !ok {
				m.logger.Info().Msg("Day: tie detected; tie policy = none; nobody is lynched")
				m.appendLine("DAY: tie -> no lynch\n")
				m.feed.Emit(events.NewLynchResolved(m.matchID, 0, false, round))
				return 0, false
			}
			m.appendLine(fmt.Sprintf("DAY: executioner-lynch %s (%s)\n", m.tag(victim), m.state.Players[victim].Role))
			m.logger.Info().Int("victim", int(victim)+1).Msg("Day: executioner chose victim")
			m.lynch(victim, round, "execution")
			return victim, true

		case core.TieRandom:
			victim, _ := m.rng.ChooseID(leaders)
			m.logger.Info().Msg("Day: tie detected; victim chosen randomly")
			m.appendLine("DAY: tie -> victim chosen randomly\n")
			m.appendLine(fmt.Sprintf("DAY: lynch victim %s (%s)\n", m.tag(victim), m.state.Players[victim].Role))
			m.announceLynch(victim)
			m.lynch(victim, round, "lynch")
			return victim, true
		}
	}

	victim := leaders[0]
	m.appendLine(fmt.Sprintf("DAY: lynch victim %s (%s)\n", m.tag(victim), m.state.Players[victim].Role))
	m.announceLynch(victim)
	m.lynch(victim, round, "lynch")
	return victim, true
}

func (m *Moderator) announceLynch(victim core.PlayerID) {
	ev := m.logger.Info().Int("victim", int(victim)+1)
	if m.cfg.OpenAnnouncements {
		ev = ev.Str("role", m.state.Players[victim].Role.String())
	}
	ev.Msg("Day: lynched")
}

// lynch records the death round, publishes the event and kills the victim.
func (m *Moderator) lynch(victim core.PlayerID, round int, cause string) {
	m.recordDeathRound(victim)
	m.feed.Emit(events.NewLynchResolved(m.matchID, victim, true, round))
	m.feed.Emit(events.NewPlayerDied(m.matchID, victim, m.state.Players[victim].Name, m.state.Players[victim].Role, cause, round))
	m.KillPlayer(victim)
}

// resolveTieViaExecutioner asks each alive Executioner in id order. The
// first valid in-set pick wins; an abstention or invalid pick moves on to
// the next Executioner, if any.
func (m *Moderator) resolveTieViaExecutioner(leaders []core.PlayerID) (core.PlayerID, bool) {
	for i := range m.state.Players {
		id := core.PlayerID(i)
		if !m.state.IsAlive(id) || m.state.Players[i].Role != core.RoleExecutioner {
			continue
		}
		decider, ok := m.agents[i].(roles.ExecutionDecider)
		if !ok {
			continue
		}

		victim, chose := decider.DecideExecution(m, leaders)
		if !chose {
			m.appendLine(fmt.Sprintf("DAY: executioner abstains (%s)\n", m.tag(id)))
			continue
		}
		valid := false
		for _, l := range leaders {
			if l == victim {
				valid = true
				break
			}
		}
		if !valid {
			m.appendLine(fmt.Sprintf("DAY: executioner invalid choice by %s\n", m.tag(id)))
			continue
		}
		m.appendLine(fmt.Sprintf("DAY: executioner chooses %s\n", m.tag(victim)))
		return victim, true
	}
	return 0, false
}

// ---------- Night ----------

// MafiaVoteTarget adds one mafia kill vote. The voter must be an alive
// mafioso; statistics count every submission.
func (m *Moderator) MafiaVoteTarget(mafiaID, target core.PlayerID) {
	if !m.state.IsAlive(mafiaID) || !m.state.IsAlive(target) {
		return
	}
	if m.state.Players[mafiaID].Team != core.TeamMafia {
		return
	}

	m.mu.Lock()
	m.mafiaTally[target]++
	m.statsMafiaVotes[mafiaID]++
	m.roundAppend(fmt.Sprintf("NIGHT: mafia-vote %s -> %s\n", m.tag(mafiaID), m.tag(target)))
	m.mu.Unlock()

	if m.cfg.FullLog && m.cfg.OpenAnnouncements {
		m.logger.Info().
			Int("voter", int(mafiaID)+1).
			Int("target", int(target)+1).
			Msg("Night (open): mafia vote")
	}
}

// Investigate answers whether target is an alive mafioso. Non-destructive;
// the Maniac reads as not-mafia.
func (m *Moderator) Investigate(_, target core.PlayerID) bool {
	return m.state.IsAlive(target) && m.state.Players[target].Team == core.TeamMafia
}

// SetDetectiveShot records the detective's kill, last write winning.
func (m *Moderator) SetDetectiveShot(detectiveID, target core.PlayerID) {
	if !m.state.IsAlive(detectiveID) || !m.state.IsAlive(target) {
		return
	}

	m.mu.Lock()
	m.detectiveShot = optTarget{id: target, set: true}
	m.statsDetShots[detectiveID]++
	m.roundAppend(fmt.Sprintf("NIGHT: detective-shot -> %s\n", m.tag(target)))
	m.mu.Unlock()

	if m.cfg.FullLog && m.cfg.OpenAnnouncements {
		m.logger.Info().Int("target", int(target)+1).Msg("Night (open): detective shot")
	}
}

// SetDoctorHeal records the doctor's heal target (self permitted).
func (m *Moderator) SetDoctorHeal(doctorID, target core.PlayerID) {
	if !m.state.IsAlive(doctorID) || !m.state.IsAlive(target) {
		return
	}

	m.mu.Lock()
	m.doctorHeal = optTarget{id: target, set: true}
	m.statsDocHeals[doctorID]++
	m.roundAppend(fmt.Sprintf("NIGHT: doctor-heal %s\n", m.tag(target)))
	m.mu.Unlock()

	if m.cfg.FullLog && m.cfg.OpenAnnouncements {
		m.logger.Info().Int("target", int(target)+1).Msg("Night (open): doctor heals")
	}
}

// SetManiacTarget records the maniac's kill. The submitter must be the
// alive Maniac.
func (m *Moderator) SetManiacTarget(maniacID, target core.PlayerID) {
	if !m.state.IsAlive(maniacID) || !m.state.IsAlive(target) {
		return
	}
	if m.state.Players[maniacID].Team != core.TeamManiac {
		return
	}

	m.mu.Lock()
	m.maniacTarget = optTarget{id: target, set: true}
	m.statsManiacTargets[maniacID]++
	m.roundAppend(fmt.Sprintf("NIGHT: maniac-target -> %s\n", m.tag(target)))
	m.mu.Unlock()

	if m.cfg.FullLog && m.cfg.OpenAnnouncements {
		m.logger.Info().Int("target", int(target)+1).Msg("Night (open): maniac targets")
	}
}

// SetJournalistCompare appends one team comparison query. Targets must be
// distinct, alive and different from the journalist.
func (m *Moderator) SetJournalistCompare(journalistID, a, b core.PlayerID) {
	if a == b || journalistID == a || journalistID == b {
		return
	}
	if !m.state.IsAlive(journalistID) || !m.state.IsAlive(a) || !m.state.IsAlive(b) {
		return
	}

	m.mu.Lock()
	m.journalistQueries = append(m.journalistQueries, JournalistQuery{Journalist: journalistID, A: a, B: b})
	m.roundAppend(fmt.Sprintf("NIGHT: journalist-compare by %s -> %s vs %s\n", m.tag(journalistID), m.tag(a), m.tag(b)))
	m.mu.Unlock()
}

// SetEavesdropperTarget appends one observation request. The target must be
// alive and different from the eavesdropper.
func (m *Moderator) SetEavesdropperTarget(eavesdropperID, target core.PlayerID) {
	if eavesdropperID == target {
		return
	}
	if !m.state.IsAlive(eavesdropperID) || !m.state.IsAlive(target) {
		return
	}

	m.mu.Lock()
	m.eavesdropRequests = append(m.eavesdropRequests, eavesdropRequest{Eavesdropper: eavesdropperID, Target: target})
	m.roundAppend(fmt.Sprintf("NIGHT: eavesdropper-target by %s -> %s\n", m.tag(eavesdropperID), m.tag(target)))
	m.mu.Unlock()
}

// ResolveNight merges the night intent buffers into the kill set, applies
// the heal, answers the information queries, applies deaths in id order and
// writes the round file. Returns the dead ids.
func (m *Moderator) ResolveNight() []core.PlayerID {
	n := m.state.NumPlayers()

	m.mu.Lock()
	tally := make([]int, n)
	copy(tally, m.mafiaTally)
	detShot := m.detectiveShot
	docHeal := m.doctorHeal
	manTarget := m.maniacTarget
	queries := append([]JournalistQuery(nil), m.journalistQueries...)
	requests := append([]eavesdropRequest(nil), m.eavesdropRequests...)
	round := m.roundIndex
	m.mu.Unlock()

	if m.cfg.FullLog {
		if m.cfg.OpenAnnouncements {
			var sb strings.Builder
			for i := 0; i < n; i++ {
				if tally[i] > 0 && m.state.IsAlive(core.PlayerID(i)) {
					fmt.Fprintf(&sb, " #%d(%d)", i+1, tally[i])
				}
			}
			s := strings.TrimSpace(sb.String())
			if s == "" {
				s = "none"
			}
			m.logger.Info().Str("tally", s).Msg("Night (open): mafia tally")
		} else {
			m.logger.Info().Msg("Night: actions recorded (closed)")
		}
	}

	// Aggregated mafia votes for the round file.
	{
		var sb strings.Builder
		sb.WriteString("NIGHT: mafia-tally")
		any := false
		for i := 0; i < n; i++ {
			if tally[i] > 0 && m.state.IsAlive(core.PlayerID(i)) {
				fmt.Fprintf(&sb, " %s(%d)", m.tag(core.PlayerID(i)), tally[i])
				any = true
			}
		}
		if !any {
			sb.WriteString(" none")
		}
		sb.WriteString("\n")
		m.appendLine(sb.String())
	}

	// Mafia target: most votes wins, ties broken by the moderator RNG.
	mafiaTarget := optTarget{}
	{
		maxVotes := 0
		for _, c := range tally {
			maxVotes = max(maxVotes, c)
		}
		if maxVotes > 0 {
			var cands []core.PlayerID
			for i := 0; i < n; i++ {
				if tally[i] == maxVotes && m.state.IsAlive(core.PlayerID(i)) {
					cands = append(cands, core.PlayerID(i))
				}
			}
			if id, ok := m.rng.ChooseID(cands); ok {
				mafiaTarget = optTarget{id: id, set: true}
			}
		}
	}

	toKill := make([]bool, n)
	markShot := func(t optTarget, src string) {
		if !t.set || !m.state.IsAlive(t.id) {
			return
		}
		toKill[t.id] = true
		m.appendLine(fmt.Sprintf("NIGHT: marked-by-%s %s\n", src, m.tag(t.id)))
	}
	markShot(mafiaTarget, "mafia")
	markShot(detShot, "detective")
	markShot(manTarget, "maniac")

	// The heal cancels every mark on its target; the line is journalled
	// whether or not a kill was actually cancelled.
	if docHeal.set && m.state.IsAlive(docHeal.id) {
		if m.cfg.FullLog && m.cfg.OpenAnnouncements {
			m.logger.Info().Int("target", int(docHeal.id)+1).Msg("Night (open): heal cancels death")
		}
		m.appendLine(fmt.Sprintf("NIGHT: heal-cancels %s\n", m.tag(docHeal.id)))
		toKill[docHeal.id] = false
	}

	for _, q := range queries {
		if !m.state.ValidID(q.A) || !m.state.ValidID(q.B) {
			continue
		}
		verdict := "DIFFERENT"
		if m.state.Players[q.A].Team == m.state.Players[q.B].Team {
			verdict = "SAME"
		}
		m.appendLine(fmt.Sprintf("NIGHT: journalist-result by %s -> %s vs %s : %s\n",
			m.tag(q.Journalist), m.tag(q.A), m.tag(q.B), verdict))
	}

	for _, r := range requests {
		if !m.state.ValidID(r.Target) {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "NIGHT: eavesdropper-result for %s by %s ->", m.tag(r.Target), m.tag(r.Eavesdropper))
		any := false
		if tally[r.Target] > 0 {
			fmt.Fprintf(&sb, " mafia(%d)", tally[r.Target])
			any = true
		}
		if detShot.set && detShot.id == r.Target {
			if any {
				sb.WriteString(",")
			}
			sb.WriteString(" det-shot")
			any = true
		}
		if docHeal.set && docHeal.id == r.Target {
			if any {
				sb.WriteString(",")
			}
			sb.WriteString(" doc-heal")
			any = true
		}
		if manTarget.set && manTarget.id == r.Target {
			if any {
				sb.WriteString(",")
			}
			sb.WriteString(" maniac")
			any = true
		}
		if !any {
			sb.WriteString(" none")
		}
		sb.WriteString("\n")
		m.appendLine(sb.String())
	}

	// Apply deaths in id order for determinism.
	var deaths []core.PlayerID
	for i := 0; i < n; i++ {
		if toKill[i] {
			deaths = append(deaths, core.PlayerID(i))
		}
	}
	for _, id := range deaths {
		if m.cfg.OpenAnnouncements {
			m.logger.Info().
				Int("player", int(id)+1).
				Str("role", m.state.Players[id].Role.String()).
				Msg("Night (open): player died")
		}
		m.recordDeathRound(id)
		m.appendLine(fmt.Sprintf("NIGHT: death %s (%s)\n", m.tag(id), m.state.Players[id].Role))
		m.feed.Emit(events.NewPlayerDied(m.matchID, id, m.state.Players[id].Name, m.state.Players[id].Role, "night", round))
		m.KillPlayer(id)
	}

	m.clearNightIntents()

	if len(deaths) == 0 {
		m.logger.Info().Msg("Night: no deaths")
	} else if !m.cfg.OpenAnnouncements {
		var sb strings.Builder
		for _, id := range deaths {
			fmt.Fprintf(&sb, " #%d (%s)", int(id)+1, m.state.Players[id].Team)
		}
		m.logger.Info().Str("deaths", strings.TrimSpace(sb.String())).Msg("Night: deaths")
	}

	m.writeRoundFile(true)
	return deaths
}

func (m *Moderator) clearNightIntents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.mafiaTally {
		m.mafiaTally[i] = 0
	}
	m.detectiveShot = optTarget{}
	m.doctorHeal = optTarget{}
	m.maniacTarget = optTarget{}
	m.journalistQueries = m.journalistQueries[:0]
	m.eavesdropRequests = m.eavesdropRequests[:0]
}

// ---------- Shared operations ----------

// KillPlayer marks a player dead. Idempotent; the slot and its role stay
// readable for post-mortem journalling.
func (m *Moderator) KillPlayer(id core.PlayerID) {
	if !m.state.IsAlive(id) {
		return
	}
	m.state.Kill(id)
	if !m.cfg.OpenAnnouncements {
		m.logger.Info().Int("player", int(id)+1).Msg("Player has died")
	}
}

// EvaluateWinner checks the terminal conditions in priority order. Calling
// it with an empty player arena is an engine invariant break.
func (m *Moderator) EvaluateWinner() core.Winner {
	if m.state.NumPlayers() == 0 {
		m.logger.Error().Msg("EvaluateWinner called with no players")
		panic("moderator: EvaluateWinner with empty player arena")
	}

	maf := m.state.AliveTeamCount(core.TeamMafia)
	man := m.state.AliveTeamCount(core.TeamManiac)
	town := m.state.AliveTeamCount(core.TeamTown)

	switch {
	case maf == 0 && man == 0:
		return core.WinnerTown
	case maf == 0 && man == 1 && town == 1:
		return core.WinnerManiac
	case maf > 0 && maf >= town+man:
		return core.WinnerMafia
	}
	return core.WinnerNone
}

// LogInfo forwards an agent's informational message to the console log.
func (m *Moderator) LogInfo(msg string) {
	m.logger.Info().Msg(msg)
}

func (m *Moderator) recordDeathRound(id core.PlayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statsDiedRound[id] == 0 {
		m.statsDiedRound[id] = m.roundIndex
	}
}

// appendLine adds one journal line under the lock.
func (m *Moderator) appendLine(line string) {
	m.mu.Lock()
	m.roundAppend(line)
	m.mu.Unlock()
}
