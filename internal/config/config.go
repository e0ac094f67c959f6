// Package config loads the match configuration from a flat key/value file
// (one `key: value` per line, `#` comments), environment variables and the
// defaults. The reader is tolerant: unknown keys and malformed values log a
// warning and are skipped, so a faulty config file still yields a runnable
// match.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// envPrefix is prepended (upper-cased key) for environment overrides, e.g.
// MAFIA_N_PLAYERS.
const envPrefix = "MAFIA_"

// Config holds all configuration for the simulator.
type Config struct {
	NumPlayers        int
	Seed              uint64
	Human             bool
	LogMode           string // "short" | "full"
	OpenAnnouncements bool
	LogsDir           string
	TiePolicy         string // "none" | "random"
	MafiaDivisor      int
	Executioners      int
	Journalists       int
	Eavesdroppers     int
	UseCoroutines     bool
	LogFile           string
	JSONEvents        bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		NumPlayers:    9,
		LogMode:       "short",
		LogsDir:       "logs",
		TiePolicy:     "none",
		MafiaDivisor:  3,
		Executioners:  1,
		Journalists:   1,
		Eavesdroppers: 1,
	}
}

// knownKeys lists every accepted file/env key, including synonyms.
var knownKeys = []string{
	"n_players", "seed", "human", "log", "open", "open_announcements",
	"logs_dir", "tie", "k_mafia_div", "executioner_count",
	"journalist_count", "eavesdropper_count", "use_coroutines", "engine",
	"log_file", "json_events",
}

// Load reads the config file at path over the defaults, then applies any
// environment overrides. Keys are case-insensitive; the file itself being
// unreadable is an error, individual bad entries are not.
func Load(path string, logger zerolog.Logger) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}
	logger.Info().Str("file", path).Msg("Loading config")

	// viper lower-cases keys, which also gives us case-insensitivity.
	for key, raw := range v.AllSettings() {
		cfg.applyKey(key, cast.ToString(raw), logger)
	}

	cfg.applyEnv(logger)
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, for runs
// without a config file.
func FromEnv(logger zerolog.Logger) Config {
	cfg := Default()
	cfg.applyEnv(logger)
	return cfg
}

func (c *Config) applyEnv(logger zerolog.Logger) {
	for _, key := range knownKeys {
		if raw, ok := os.LookupEnv(envPrefix + strings.ToUpper(key)); ok {
			c.applyKey(key, raw, logger)
		}
	}
}

// applyKey sets one configuration entry. A malformed value keeps the
// previous one; an unknown key is reported and ignored.
func (c *Config) applyKey(key, raw string, logger zerolog.Logger) {
	val := strings.TrimSpace(raw)
	warn := func(reason string) {
		logger.Warn().Str("key", key).Str("value", raw).Msg(reason)
	}

	switch strings.ToLower(key) {
	case "n_players":
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			c.NumPlayers = n
		} else {
			warn("invalid n_players; key skipped")
		}
	case "seed":
		if s, err := strconv.ParseUint(val, 10, 64); err == nil {
			c.Seed = s
		} else {
			warn("invalid seed; key skipped")
		}
	case "human":
		if b, ok := parseBool(val); ok {
			c.Human = b
		} else {
			warn("invalid human; key skipped")
		}
	case "log":
		switch strings.ToLower(val) {
		case "short", "full":
			c.LogMode = strings.ToLower(val)
		default:
			warn("invalid log mode; key skipped")
		}
	case "open", "open_announcements":
		if b, ok := parseBool(val); ok {
			c.OpenAnnouncements = b
		} else {
			warn("invalid open flag; key skipped")
		}
	case "logs_dir":
		if val != "" {
			c.LogsDir = val
		} else {
			warn("empty logs_dir; key skipped")
		}
	case "tie":
		switch strings.ToLower(val) {
		case "none", "random":
			c.TiePolicy = strings.ToLower(val)
		default:
			warn("invalid tie policy; key skipped")
		}
	case "k_mafia_div":
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			c.MafiaDivisor = n
		} else {
			warn("invalid k_mafia_div; key skipped")
		}
	case "executioner_count":
		if n, ok := parseRoleCount(val); ok {
			c.Executioners = n
		} else {
			warn("invalid executioner_count; key skipped")
		}
	case "journalist_count":
		if n, ok := parseRoleCount(val); ok {
			c.Journalists = n
		} else {
			warn("invalid journalist_count; key skipped")
		}
	case "eavesdropper_count":
		if n, ok := parseRoleCount(val); ok {
			c.Eavesdroppers = n
		} else {
			warn("invalid eavesdropper_count; key skipped")
		}
	case "use_coroutines":
		if b, ok := parseBool(val); ok {
			c.UseCoroutines = b
		} else {
			warn("invalid use_coroutines; key skipped")
		}
	case "engine":
		switch strings.ToLower(val) {
		case "coro":
			c.UseCoroutines = true
		case "threads":
			c.UseCoroutines = false
		default:
			warn("invalid engine; key skipped")
		}
	case "log_file":
		c.LogFile = val
	case "json_events":
		if b, ok := parseBool(val); ok {
			c.JSONEvents = b
		} else {
			warn("invalid json_events; key skipped")
		}
	default:
		warn("unknown configuration key")
	}
}

// Validate checks the ranges a tolerant load cannot repair.
func (c *Config) Validate() error {
	if c.NumPlayers < 1 {
		return fmt.Errorf("n_players must be at least 1")
	}
	if c.MafiaDivisor < 1 {
		return fmt.Errorf("k_mafia_div must be at least 1")
	}
	if c.Executioners < 0 || c.Executioners > 1 {
		return fmt.Errorf("executioner_count must be 0 or 1")
	}
	if c.Journalists < 0 || c.Journalists > 1 {
		return fmt.Errorf("journalist_count must be 0 or 1")
	}
	if c.Eavesdroppers < 0 || c.Eavesdroppers > 1 {
		return fmt.Errorf("eavesdropper_count must be 0 or 1")
	}
	if c.LogMode != "short" && c.LogMode != "full" {
		return fmt.Errorf("log must be short or full")
	}
	if c.TiePolicy != "none" && c.TiePolicy != "random" {
		return fmt.Errorf("tie must be none or random")
	}
	return nil
}

// Normalize resolves combinations the engine cannot host. The interactive
// agent blocks on console I/O, so Human+coroutines silently falls back to
// the threaded backend.
func (c *Config) Normalize(logger zerolog.Logger) {
	if c.Human && c.UseCoroutines {
		c.UseCoroutines = false
		logger.Debug().Msg("Human agent requested with coroutine backend; using threaded backend")
	}
}

// GameConfig maps the loaded configuration onto the engine's parameters.
func (c *Config) GameConfig() game.Config {
	tie := core.TieNone
	if c.TiePolicy == "random" {
		tie = core.TieRandom
	}
	return game.Config{
		NumPlayers:        c.NumPlayers,
		Seed:              c.Seed,
		Human:             c.Human,
		FullLog:           c.LogMode == "full",
		OpenAnnouncements: c.OpenAnnouncements,
		LogsDir:           c.LogsDir,
		TiePolicy:         tie,
		MafiaDivisor:      c.MafiaDivisor,
		Executioners:      c.Executioners,
		Journalists:       c.Journalists,
		Eavesdroppers:     c.Eavesdroppers,
	}
}

// Watch enables hot-reload notifications for the given config file. The
// simulator itself runs single-match batches; this hook exists for callers
// embedding the config layer in longer-lived tools.
func Watch(path string, onChange func(Config), logger zerolog.Logger) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := Load(path, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Config reload failed")
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
	return nil
}

// parseBool accepts true/false, yes/no, on/off and 1/0, case-insensitive.
func parseBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

// parseRoleCount accepts 0 or 1.
func parseRoleCount(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 1 {
		return 0, false
	}
	return n, true
}
