package game

import (
	"fmt"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Config holds the match parameters the engine and moderator need. The
// configuration layer in internal/config produces one from file, env and
// CLI input.
type Config struct {
	NumPlayers        int
	Seed              uint64 // 0 means OS entropy
	Human             bool
	FullLog           bool
	OpenAnnouncements bool
	LogsDir           string
	TiePolicy         core.TiePolicy
	MafiaDivisor      int
	Executioners      int // 0 or 1
	Journalists       int // 0 or 1
	Eavesdroppers     int // 0 or 1
}

// DefaultConfig returns the built-in match parameters.
func DefaultConfig() Config {
	return Config{
		NumPlayers:    9,
		LogsDir:       "logs",
		TiePolicy:     core.TieNone,
		MafiaDivisor:  3,
		Executioners:  1,
		Journalists:   1,
		Eavesdroppers: 1,
	}
}

// roleBag computes the role census and returns the shuffled-ready bag of
// length NumPlayers. Mafia count is max(1, N / max(3, divisor)); Detective,
// Doctor and Maniac are mandatory singletons; the extra roles are clamped to
// 0 or 1; the remainder are Citizens.
func (c Config) roleBag() ([]core.Role, error) {
	total := c.NumPlayers
	if total < 1 {
		return nil, fmt.Errorf("n_players must be >= 1, got %d", total)
	}

	div := max(3, c.MafiaDivisor)
	mafia := max(1, total/div)

	exec := min(max(c.Executioners, 0), 1)
	journ := min(max(c.Journalists, 0), 1)
	ears := min(max(c.Eavesdroppers, 0), 1)

	fixed := mafia + 3 + exec + journ + ears
	if fixed > total {
		return nil, fmt.Errorf("not enough player slots: %d mandatory and extra roles for %d players", fixed, total)
	}

	bag := make([]core.Role, 0, total)
	for i := 0; i < mafia; i++ {
		bag = append(bag, core.RoleMafia)
	}
	bag = append(bag, core.RoleDetective, core.RoleDoctor, core.RoleManiac)
	if exec == 1 {
		bag = append(bag, core.RoleExecutioner)
	}
	if journ == 1 {
		bag = append(bag, core.RoleJournalist)
	}
	if ears == 1 {
		bag = append(bag, core.RoleEavesdropper)
	}
	for len(bag) < total {
		bag = append(bag, core.RoleCitizen)
	}
	return bag, nil
}
