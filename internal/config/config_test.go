package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
	"github.com/mitchelldurbincs/MafiaSimulator/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
# match setup
n_players: 12
seed: 99
human: yes
log: full
open: on
logs_dir: out
tie: random
k_mafia_div: 4
executioner_count: 0
journalist_count: 1
eavesdropper_count: 0
use_coroutines: true
`)

	cfg, err := Load(path, testutil.NopLogger())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.NumPlayers)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.True(t, cfg.Human)
	assert.Equal(t, "full", cfg.LogMode)
	assert.True(t, cfg.OpenAnnouncements)
	assert.Equal(t, "out", cfg.LogsDir)
	assert.Equal(t, "random", cfg.TiePolicy)
	assert.Equal(t, 4, cfg.MafiaDivisor)
	assert.Equal(t, 0, cfg.Executioners)
	assert.Equal(t, 1, cfg.Journalists)
	assert.Equal(t, 0, cfg.Eavesdroppers)
	assert.True(t, cfg.UseCoroutines)
}

func TestLoad_KeysAreCaseInsensitive(t *testing.T) {
	path := writeConfig(t, "N_PLAYERS: 7\nTIE: random\n")
	cfg, err := Load(path, testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.NumPlayers)
	assert.Equal(t, "random", cfg.TiePolicy)
}

func TestLoad_MalformedValuesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
n_players: many
seed: -4
tie: sometimes
journalist_count: 3
`)
	cfg, err := Load(path, testutil.NopLogger())
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.NumPlayers, cfg.NumPlayers)
	assert.Equal(t, def.Seed, cfg.Seed)
	assert.Equal(t, def.TiePolicy, cfg.TiePolicy)
	assert.Equal(t, def.Journalists, cfg.Journalists)
}

func TestLoad_UnknownKeysAreIgnored(t *testing.T) {
	path := writeConfig(t, "n_players: 6\nfavourite_color: blue\n")
	cfg, err := Load(path, testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.NumPlayers)
}

func TestLoad_EngineSynonym(t *testing.T) {
	cfg, err := Load(writeConfig(t, "engine: coro\n"), testutil.NopLogger())
	require.NoError(t, err)
	assert.True(t, cfg.UseCoroutines)

	cfg, err = Load(writeConfig(t, "engine: threads\n"), testutil.NopLogger())
	require.NoError(t, err)
	assert.False(t, cfg.UseCoroutines)
}

func TestLoad_JSONEvents(t *testing.T) {
	cfg, err := Load(writeConfig(t, "json_events: yes\n"), testutil.NopLogger())
	require.NoError(t, err)
	assert.True(t, cfg.JSONEvents)

	cfg, err = Load(writeConfig(t, "json_events: maybe\n"), testutil.NopLogger())
	require.NoError(t, err)
	assert.False(t, cfg.JSONEvents)
}

func TestLoad_OpenSynonyms(t *testing.T) {
	cfg, err := Load(writeConfig(t, "open_announcements: 1\n"), testutil.NopLogger())
	require.NoError(t, err)
	assert.True(t, cfg.OpenAnnouncements)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), testutil.NopLogger())
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MAFIA_N_PLAYERS", "15")
	t.Setenv("MAFIA_TIE", "random")

	cfg := FromEnv(testutil.NopLogger())
	assert.Equal(t, 15, cfg.NumPlayers)
	assert.Equal(t, "random", cfg.TiePolicy)
}

func TestParseBool_Variants(t *testing.T) {
	for _, v := range []string{"true", "YES", "on", "1", "On", "TRUE"} {
		b, ok := parseBool(v)
		assert.True(t, ok, v)
		assert.True(t, b, v)
	}
	for _, v := range []string{"false", "no", "OFF", "0"} {
		b, ok := parseBool(v)
		assert.True(t, ok, v)
		assert.False(t, b, v)
	}
	for _, v := range []string{"", "maybe", "2"} {
		_, ok := parseBool(v)
		assert.False(t, ok, v)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.NumPlayers = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MafiaDivisor = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Executioners = 2
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.LogMode = "verbose"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.TiePolicy = "coin"
	assert.Error(t, bad.Validate())
}

func TestNormalize_DowngradesHumanCoroutines(t *testing.T) {
	cfg := Default()
	cfg.Human = true
	cfg.UseCoroutines = true

	cfg.Normalize(testutil.NopLogger())

	assert.True(t, cfg.Human)
	assert.False(t, cfg.UseCoroutines)
}

func TestGameConfig_Mapping(t *testing.T) {
	cfg := Default()
	cfg.TiePolicy = "random"
	cfg.LogMode = "full"

	gc := cfg.GameConfig()
	assert.Equal(t, core.TieRandom, gc.TiePolicy)
	assert.True(t, gc.FullLog)
	assert.Equal(t, cfg.NumPlayers, gc.NumPlayers)
	assert.Equal(t, cfg.LogsDir, gc.LogsDir)
}
