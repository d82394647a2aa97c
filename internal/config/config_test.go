package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secsweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderDefaults(t *testing.T) {
	path := writeConfig(t, "version: v1\ndata_dir: /srv/sweep\n")
	l, err := NewLoader(path)
	require.NoError(t, err)

	cfg := l.Config()
	assert.Equal(t, filepath.Join("/srv/sweep", "users.csv"), cfg.Inputs.Roster)
	assert.Equal(t, filepath.Join("/srv/sweep", "events.json"), cfg.Inputs.Events)
	assert.Equal(t, filepath.Join("/srv/sweep", "secsweep.log"), cfg.Outputs.Log)
	assert.Equal(t, filepath.Join("/srv/sweep", "alerts.json"), cfg.Outputs.Alerts)
	assert.Equal(t, "strict", cfg.Policies.Inactivity)
	assert.Equal(t, 5, cfg.Policies.BruteForceThreshold)
	assert.Equal(t, []string{"nc", "netcat", "hydra", "john"}, cfg.Denylists.Processes)
	assert.Equal(t, []string{"Telnet", "RemoteRegistry", "Spooler"}, cfg.Denylists.Services)
}

func TestLoaderOverrides(t *testing.T) {
	path := writeConfig(t, strings.TrimSpace(`
version: v1
data_dir: /srv/sweep
inputs:
  roster: roster_export.csv
policies:
  inactivity: broad
  brute_force_threshold: 3
denylists:
  processes: [socat]
`)+"\n")
	l, err := NewLoader(path)
	require.NoError(t, err)

	cfg := l.Config()
	assert.Equal(t, filepath.Join("/srv/sweep", "roster_export.csv"), cfg.Inputs.Roster)
	assert.Equal(t, "broad", cfg.Policies.Inactivity)
	assert.Equal(t, 3, cfg.Policies.BruteForceThreshold)
	assert.Equal(t, []string{"socat"}, cfg.Denylists.Processes)
}

func TestLoaderAbsolutePathKept(t *testing.T) {
	path := writeConfig(t, "version: v1\ninputs:\n  roster: /etc/secsweep/users.csv\n")
	l, err := NewLoader(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/secsweep/users.csv", l.Config().Inputs.Roster)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("data")
	require.NoError(t, Validate(cfg))
	assert.Equal(t, filepath.Join("data", "users.csv"), cfg.Inputs.Roster)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Policies: Policies{Inactivity: "lenient", BruteForceThreshold: 0},
	}
	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "version is required")
	assert.Contains(t, msg, "unknown variant")
	assert.Contains(t, msg, "brute_force_threshold")
	assert.Contains(t, msg, "denylists.processes")
	assert.Contains(t, msg, "denylists.services")
}

func TestValidateOK(t *testing.T) {
	path := writeConfig(t, "version: v1\n")
	l, err := NewLoader(path)
	require.NoError(t, err)
	assert.NoError(t, Validate(l.Config()))
}

func TestReload(t *testing.T) {
	path := writeConfig(t, "version: v1\npolicies:\n  inactivity: strict\n")
	l, err := NewLoader(path)
	require.NoError(t, err)

	var seen *Config
	l.OnChange(func(c *Config) { seen = c })

	require.NoError(t, os.WriteFile(path, []byte("version: v2\npolicies:\n  inactivity: broad\n"), 0o644))
	cfg, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, "broad", cfg.Policies.Inactivity)
	assert.Same(t, cfg, seen)
	assert.Same(t, cfg, l.Config())
}
