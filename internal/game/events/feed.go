package events

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sink consumes match events. Sinks must tolerate being called from the
// moderator goroutine mid-resolution; anything slow belongs behind a buffer
// of the sink's own.
type Sink func(Event)

// Feed fans events out to its sinks in attach order. A nil *Feed is a valid
// no-op feed, so components can emit unconditionally.
type Feed struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	sinks  []Sink
}

// NewFeed creates an empty feed. The logger only reports misbehaving sinks.
func NewFeed(logger zerolog.Logger) *Feed {
	return &Feed{logger: logger.With().Str("component", "match_feed").Logger()}
}

// Attach registers a sink for all subsequent events.
func (f *Feed) Attach(s Sink) {
	if f == nil || s == nil {
		return
	}
	f.mu.Lock()
	f.sinks = append(f.sinks, s)
	f.mu.Unlock()
}

// Emit delivers one event to every sink. A sink that panics is reported and
// skipped; it cannot take the match down or starve the sinks after it.
func (f *Feed) Emit(e Event) {
	if f == nil {
		return
	}
	f.mu.RLock()
	sinks := f.sinks
	f.mu.RUnlock()
	for _, s := range sinks {
		f.deliver(s, e)
	}
}

func (f *Feed) deliver(s Sink, e Event) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().
				Str("event", e.Kind.String()).
				Interface("panic", r).
				Msg("Match feed sink panicked")
		}
	}()
	s(e)
}

// NewLogSink returns a sink that writes each event as a structured debug
// line, field names matching the rest of the console log.
func NewLogSink(logger zerolog.Logger) Sink {
	lg := logger.With().Str("component", "match_feed").Logger()
	return func(e Event) {
		ev := lg.Debug().
			Str("event", e.Kind.String()).
			Str("match_id", e.Match)
		switch e.Kind {
		case MatchStarted:
			ev = ev.Int("players", e.NumPlayers).Bool("human", e.Human)
		case PhaseStarted:
			ev = ev.Str("phase", e.Phase.String()).Int("round", e.Round)
		case LynchResolved:
			ev = ev.Bool("has_victim", e.HasVictim).Int("round", e.Round)
			if e.HasVictim {
				ev = ev.Int("victim", int(e.Player)+1)
			}
		case PlayerDied:
			ev = ev.Int("player", int(e.Player)+1).
				Str("name", e.Name).
				Str("role", e.Role.String()).
				Str("cause", e.Cause).
				Int("round", e.Round)
		case MatchEnded:
			ev = ev.Str("winner", e.Winner.String()).Int("rounds", e.Round)
		}
		ev.Msg("Match event")
	}
}

// jsonEvent is the line shape NewJSONSink writes: one object per event,
// zero-valued fields elided.
type jsonEvent struct {
	Event   string    `json:"event"`
	Match   string    `json:"match_id"`
	At      time.Time `json:"at"`
	Round   int       `json:"round,omitempty"`
	Phase   string    `json:"phase,omitempty"`
	Player  int       `json:"player,omitempty"`
	Name    string    `json:"name,omitempty"`
	Role    string    `json:"role,omitempty"`
	Cause   string    `json:"cause,omitempty"`
	Winner  string    `json:"winner,omitempty"`
	Players int       `json:"players,omitempty"`
	Human   bool      `json:"human,omitempty"`
}

// NewJSONSink returns a sink that streams events as JSON lines to w, for
// machine consumers of a match (--json-events on the CLI).
func NewJSONSink(w io.Writer) Sink {
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	return func(e Event) {
		line := jsonEvent{
			Event: e.Kind.String(),
			Match: e.Match,
			At:    e.At,
			Round: e.Round,
		}
		switch e.Kind {
		case MatchStarted:
			line.Players = e.NumPlayers
			line.Human = e.Human
		case PhaseStarted:
			line.Phase = e.Phase.String()
		case LynchResolved:
			if e.HasVictim {
				line.Player = int(e.Player) + 1
			}
		case PlayerDied:
			line.Player = int(e.Player) + 1
			line.Name = e.Name
			line.Role = e.Role.String()
			line.Cause = e.Cause
		case MatchEnded:
			line.Winner = e.Winner.String()
		}
		mu.Lock()
		defer mu.Unlock()
		_ = enc.Encode(line)
	}
}
