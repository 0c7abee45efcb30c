package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/cafedesk/internal/models"
)

func TestLoad_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "nested", "cafedesk.db"), cfg.Database.Path)
	assert.Equal(t, 5*time.Minute, cfg.Timer.WarningThreshold)
	assert.Equal(t, time.Second, cfg.Timer.PollInterval)
	assert.Equal(t, 64, cfg.Timer.EventBuffer)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
	assert.Equal(t, "₹", cfg.Billing.Currency)
	require.Len(t, cfg.Systems.Seed, 6)
	assert.Equal(t, SeedSystem{Name: "PS-4", Type: "Console", Rate: 100}, cfg.Systems.Seed[0])

	again, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Errorf("reloading the written defaults changed the config (-first +second):\n%s", diff)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/cafe.db
timer:
  warning_threshold: 10m
  poll_interval: 500ms
billing:
  currency: "$"
systems:
  seed:
    - name: VR-1
      type: VR
      rate: 350
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cafe.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Minute, cfg.Timer.WarningThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Timer.PollInterval)
	assert.Equal(t, 64, cfg.Timer.EventBuffer, "unset keys keep defaults")
	assert.Equal(t, "$", cfg.Billing.Currency)

	want := []models.System{{Name: "VR-1", Type: "VR", DefaultHourlyRate: 350, Availability: models.Available}}
	if diff := cmp.Diff(want, cfg.SeedSystems()); diff != "" {
		t.Errorf("seed systems mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	t.Setenv("CAFEDESK_TIMER_WARNING_THRESHOLD", "2m")
	t.Setenv("CAFEDESK_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Timer.WarningThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero threshold":    "timer:\n  warning_threshold: 0s\n",
		"negative poll":     "timer:\n  poll_interval: -1s\n",
		"negative buffer":   "timer:\n  event_buffer: -1\n",
		"seed without rate": "systems:\n  seed:\n    - name: PC-9\n",
		"malformed yaml":    "timer: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.db"), expandHome("~/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
	assert.Equal(t, "rel/x.db", expandHome("rel/x.db"))
}
