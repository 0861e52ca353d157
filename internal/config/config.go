// Package config loads the YAML configuration of the cycleflow binary.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
	"github.com/vnykmshr/cycleflow/pkg/common/logging"
	"github.com/vnykmshr/cycleflow/pkg/common/validation"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/command"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

// Config is the top-level configuration file.
//
//	log:
//	  level: debug
//	  console: true
//	metrics:
//	  enabled: true
//	pools:
//	  - name: Heartbeat
//	    workers: 2
//	    queue_size: 16
//	cycles:
//	  - name: Pinger
//	    pool: Heartbeat
//	    period: 30S
//	    autostart: true
type Config struct {
	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Pools   []PoolConfig   `yaml:"pools"`
	Cycles  []CycleConfig  `yaml:"cycles"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PoolConfig describes one task worker pool.
type PoolConfig struct {
	Name      string `yaml:"name"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

// CycleConfig describes one cycle worker and the pool its action feeds.
type CycleConfig struct {
	Name      string `yaml:"name"`
	Pool      string `yaml:"pool"`
	Period    string `yaml:"period"`
	Autostart bool   `yaml:"autostart"`
}

// Interval parses Period with the command period syntax ("30S", "5M").
func (c CycleConfig) Interval() (time.Duration, error) {
	return command.ParsePeriod(c.Period)
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Pools {
		if c.Pools[i].Name == "" {
			c.Pools[i].Name = workerpool.DefaultName
		}
	}
}

// Validate checks pool sizes, periods and pool references.
func (c *Config) Validate() error {
	pools := make(map[string]bool, len(c.Pools))
	for i, p := range c.Pools {
		field := fmt.Sprintf("pools[%d]", i)
		if pools[p.Name] {
			return cferrors.NewValidationError("config", field+".name", p.Name, "duplicate pool name")
		}
		pools[p.Name] = true
		if p.Workers <= 0 {
			return cferrors.NewValidationError("config", field+".workers", p.Workers, "must be positive")
		}
		if p.QueueSize < 0 {
			return cferrors.NewValidationError("config", field+".queue_size", p.QueueSize, "must be non-negative").
				WithHint("use 0 for an unbounded queue")
		}
	}

	cycles := make(map[string]bool, len(c.Cycles))
	for i, cy := range c.Cycles {
		field := fmt.Sprintf("cycles[%d]", i)
		if err := validation.ValidateNotEmpty("config", field+".name", strings.TrimSpace(cy.Name)); err != nil {
			return err
		}
		if cycles[cy.Name] {
			return cferrors.NewValidationError("config", field+".name", cy.Name, "duplicate cycle name")
		}
		cycles[cy.Name] = true
		if !pools[cy.Pool] {
			return cferrors.NewValidationError("config", field+".pool", cy.Pool, "unknown pool")
		}
		if _, err := cy.Interval(); err != nil {
			return cferrors.NewValidationError("config", field+".period", cy.Period, err.Error()).
				WithHint(`use a number followed by S, M, H or D, e.g. "30S"`)
		}
	}
	return nil
}
