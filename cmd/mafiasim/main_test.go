package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CoroMatchSucceeds(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"--n", "5",
		"--seed", "3",
		"--exec", "0", "--journ", "0", "--ears", "0",
		"--tie", "random",
		"--coro",
		"--logs-dir", dir,
	})

	assert.Equal(t, exitOK, code)
	_, err := os.Stat(filepath.Join(dir, "summary.txt"))
	assert.NoError(t, err)
}

func TestRun_JSONEventsMatchSucceeds(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"--n", "5",
		"--seed", "3",
		"--exec", "0", "--journ", "0", "--ears", "0",
		"--tie", "random",
		"--coro",
		"--json-events",
		"--logs-dir", dir,
	})

	assert.Equal(t, exitOK, code)
	_, err := os.Stat(filepath.Join(dir, "summary.txt"))
	assert.NoError(t, err)
}

func TestRun_InvalidPlayerCountIsConfigError(t *testing.T) {
	assert.Equal(t, exitConfigError, run([]string{"--n", "0"}))
}

func TestRun_OvercommittedRolesIsConfigError(t *testing.T) {
	// 1 mafia + 3 mandatory + 3 extras exceed 5 seats.
	code := run([]string{"--n", "5", "--logs-dir", t.TempDir()})
	assert.Equal(t, exitConfigError, code)
}

func TestRun_UnknownFlagIsConfigError(t *testing.T) {
	assert.Equal(t, exitConfigError, run([]string{"--frobnicate"}))
}

func TestRun_HelpExitsClean(t *testing.T) {
	assert.Equal(t, exitOK, run([]string{"--help"}))
}

func TestRun_ConfigFileDrivesMatch(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "match.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"n_players: 5\nseed: 7\ntie: random\nexecutioner_count: 0\n"+
			"journalist_count: 0\neavesdropper_count: 0\nengine: coro\n"+
			"logs_dir: "+filepath.Join(dir, "logs")+"\n"), 0o644))

	code := run([]string{"--yaml", cfgPath})
	assert.Equal(t, exitOK, code)
	_, err := os.Stat(filepath.Join(dir, "logs", "summary.txt"))
	assert.NoError(t, err)
}

func TestRun_MissingConfigFileIsConfigError(t *testing.T) {
	assert.Equal(t, exitConfigError, run([]string{"--yaml", filepath.Join(t.TempDir(), "missing.yaml")}))
}
