package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

const sample = `
log:
  level: debug
  console: true
metrics:
  enabled: true
pools:
  - name: Heartbeat
    workers: 2
    queue_size: 16
  - workers: 1
cycles:
  - name: Pinger
    pool: Heartbeat
    period: 30s
    autostart: true
  - name: Reporter
    pool: Task Worker
    period: 2H
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.True(t, cfg.Metrics.Enabled)

	require.Len(t, cfg.Pools, 2)
	assert.Equal(t, PoolConfig{Name: "Heartbeat", Workers: 2, QueueSize: 16}, cfg.Pools[0])
	assert.Equal(t, workerpool.DefaultName, cfg.Pools[1].Name)

	require.Len(t, cfg.Cycles, 2)
	assert.True(t, cfg.Cycles[0].Autostart)
	d, err := cfg.Cycles[0].Interval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
	d, err = cfg.Cycles[1].Interval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Pools)
	assert.Empty(t, cfg.Cycles)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		validation bool
	}{
		{"unknown field", "pools:\n  - name: a\n    workers: 1\n    threads: 4\n", false},
		{"malformed", "pools: [", false},
		{"zero workers", "pools:\n  - name: a\n    workers: 0\n", true},
		{"negative queue", "pools:\n  - name: a\n    workers: 1\n    queue_size: -1\n", true},
		{"duplicate pool", "pools:\n  - {name: a, workers: 1}\n  - {name: a, workers: 1}\n", true},
		{"unknown pool", "cycles:\n  - {name: c, pool: nope, period: 5M}\n", true},
		{"missing cycle name", "pools:\n  - {name: a, workers: 1}\ncycles:\n  - {pool: a, period: 5M}\n", true},
		{"blank cycle name", "pools:\n  - {name: a, workers: 1}\ncycles:\n  - {name: \"  \", pool: a, period: 5M}\n", true},
		{"duplicate cycle", "pools:\n  - {name: a, workers: 1}\ncycles:\n  - {name: c, pool: a, period: 5M}\n  - {name: c, pool: a, period: 5M}\n", true},
		{"bad period", "pools:\n  - {name: a, workers: 1}\ncycles:\n  - {name: c, pool: a, period: 5W}\n", true},
		{"missing period", "pools:\n  - {name: a, workers: 1}\ncycles:\n  - {name: c, pool: a}\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.validation, cferrors.IsValidationError(err), err.Error())
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycleflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Cycles, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
