// mafiasim plays one full Mafia match between autonomous agents (optionally
// with one interactive seat) and writes per-round transcripts plus a final
// statistics summary into the logs directory.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/config"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/events"
)

const (
	exitOK          = 0
	exitConfigError = 1
	exitRuntime     = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("mafiasim", pflag.ContinueOnError)
	fs.SortFlags = false

	n := fs.Int("n", 9, "Number of players")
	seed := fs.Uint64("seed", 0, "RNG seed (0 means OS entropy)")
	human := fs.Bool("human", false, "Enable one interactive human player")
	logMode := fs.String("log", "short", "Console log verbosity (short|full)")
	open := fs.Bool("open", false, "Open announcements (show roles in console logs)")
	logsDir := fs.String("logs-dir", "logs", "Directory for round and summary files")
	tie := fs.String("tie", "none", "Day tie policy (none|random)")
	kMafiaDiv := fs.Int("k-mafia-div", 3, "Mafia divisor (>= 1)")
	execCount := fs.Int("exec", 1, "Executioner count (0|1)")
	journCount := fs.Int("journ", 1, "Journalist count (0|1)")
	earsCount := fs.Int("ears", 1, "Eavesdropper count (0|1)")
	yamlPath := fs.String("yaml", "", "Load config overrides from file")
	configPath := fs.String("config", "", "Alias for --yaml")
	coro := fs.Bool("coro", false, "Use the cooperative (coroutine) backend")
	logFile := fs.String("log-file", "", "Also write console log lines to this file")
	jsonEvents := fs.Bool("json-events", false, "Stream match events as JSON lines on stdout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitConfigError
	}

	// Bootstrap logging before anything can fail, so config errors reach
	// the sink too.
	logger, closeLog, err := setupLogging(*logMode, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfigError
	}
	defer closeLog()
	log.Logger = logger

	path := *yamlPath
	if path == "" {
		path = *configPath
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path, logger)
		if err != nil {
			logger.Error().Err(err).Str("file", path).Msg("Failed to load config file")
			return exitConfigError
		}
	} else {
		cfg = config.FromEnv(logger)
	}

	// CLI overrides file and environment.
	if fs.Changed("n") {
		cfg.NumPlayers = *n
	}
	if fs.Changed("seed") {
		cfg.Seed = *seed
	}
	if fs.Changed("human") {
		cfg.Human = *human
	}
	if fs.Changed("log") {
		cfg.LogMode = *logMode
	}
	if fs.Changed("open") {
		cfg.OpenAnnouncements = *open
	}
	if fs.Changed("logs-dir") {
		cfg.LogsDir = *logsDir
	}
	if fs.Changed("tie") {
		cfg.TiePolicy = *tie
	}
	if fs.Changed("k-mafia-div") {
		cfg.MafiaDivisor = *kMafiaDiv
	}
	if fs.Changed("exec") {
		cfg.Executioners = *execCount
	}
	if fs.Changed("journ") {
		cfg.Journalists = *journCount
	}
	if fs.Changed("ears") {
		cfg.Eavesdroppers = *earsCount
	}
	if fs.Changed("coro") {
		cfg.UseCoroutines = *coro
	}
	if fs.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	if fs.Changed("json-events") {
		cfg.JSONEvents = *jsonEvents
	}

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return exitConfigError
	}
	cfg.Normalize(logger)

	// A log file named only in the config file or environment is opened
	// once the configuration is merged.
	if cfg.LogFile != *logFile {
		fileLogger, closeFileLog, ferr := setupLogging(*logMode, cfg.LogFile)
		if ferr != nil {
			logger.Error().Err(ferr).Msg("Invalid configuration")
			return exitConfigError
		}
		defer closeFileLog()
		logger = fileLogger
		log.Logger = logger
	}

	logger.Info().
		Int("players", cfg.NumPlayers).
		Uint64("seed", cfg.Seed).
		Bool("human", cfg.Human).
		Bool("coroutines", cfg.UseCoroutines).
		Str("tie", cfg.TiePolicy).
		Msg("Starting match")

	if err := playMatch(cfg, logger); err != nil {
		if errors.As(err, new(configError)) {
			logger.Error().Err(err).Msg("Match setup failed")
			return exitConfigError
		}
		logger.Error().Err(err).Msg("Match failed")
		return exitRuntime
	}

	logger.Info().Msg("Finished")
	return exitOK
}

// configError marks setup failures that should exit with the configuration
// error code rather than the runtime one.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

// playMatch builds the selected backend and plays one match. Engine panics
// (broken invariants) surface as runtime errors.
func playMatch(cfg config.Config, logger zerolog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine aborted: %v", r)
		}
	}()

	gameCfg := cfg.GameConfig()
	if cfg.UseCoroutines {
		eng, buildErr := game.NewCoroEngine(gameCfg, logger)
		if buildErr != nil {
			return configError{buildErr}
		}
		if cfg.JSONEvents {
			eng.Feed().Attach(events.NewJSONSink(os.Stdout))
		}
		return eng.Run()
	}

	eng, buildErr := game.NewEngine(gameCfg, logger)
	if buildErr != nil {
		return configError{buildErr}
	}
	if cfg.JSONEvents {
		eng.Feed().Attach(events.NewJSONSink(os.Stdout))
	}
	return eng.Run()
}

// setupLogging builds the console sink, optionally teed into a file, and
// picks the level from the verbosity mode.
func setupLogging(mode, file string) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if mode == "full" {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	var w io.Writer = console
	closeLog := func() {}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closeLog, fmt.Errorf("cannot open log file %s: %w", file, err)
		}
		w = zerolog.MultiLevelWriter(console, f)
		closeLog = func() { f.Close() }
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, closeLog, nil
}
