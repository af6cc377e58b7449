// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
	"github.com/pingcap/tidb-selectivity/pkg/util/logutil"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config contains configuration options.
type Config struct {
	Log       Log       `toml:"log" json:"log"`
	Estimator Estimator `toml:"estimator" json:"estimator"`
	// Labels are attached to every exported metric.
	Labels map[string]string `toml:"labels" json:"labels"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format. one of json, text, or console.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// Estimator is the estimator section of the config.
type Estimator struct {
	// DefaultSelectivity is used by predicates that no statistic can answer, like ranges or LIKE.
	DefaultSelectivity float64 `toml:"default-selectivity" json:"default-selectivity"`
	// DefaultEqualSelectivity is used by equalities that cannot use statistics.
	DefaultEqualSelectivity float64 `toml:"default-eq-selectivity" json:"default-eq-selectivity"`
	// MCVTarget caps the number of most common values kept per column.
	MCVTarget int `toml:"mcv-target" json:"mcv-target"`
}

// The following constants are the defaults of the estimator options.
const (
	DefDefaultSelectivity      = 0.333
	DefDefaultEqualSelectivity = 0.005
	DefMCVTarget               = 100
)

var defaultConf = Config{
	Log: Log{
		Level:            logutil.DefaultLogLevel,
		Format:           logutil.DefaultLogFormat,
		DisableTimestamp: false,
		File:             logutil.NewFileLogConfig(logutil.DefaultLogMaxSize),
	},
	Estimator: Estimator{
		DefaultSelectivity:      DefDefaultSelectivity,
		DefaultEqualSelectivity: DefDefaultEqualSelectivity,
		MCVTarget:               DefMCVTarget,
	},
}

var globalConf atomic.Pointer[Config]

func init() {
	conf := defaultConf
	StoreGlobalConfig(&conf)
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration.
// It should store configuration from command line and configuration file.
// Other parts of the system can read the global configuration use this function.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf. It mostly uses in the test to avoid some data races.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// UpdateGlobal updates the global config atomically, RestoreFunc can be used to undo it.
func UpdateGlobal(f func(conf *Config)) {
	g := GetGlobalConfig()
	newConf, err := CloneConf(g)
	if err != nil {
		panic(err)
	}
	f(newConf)
	StoreGlobalConfig(newConf)
}

// RestoreFunc gets a function that restore the config to the current value.
func RestoreFunc() (restore func()) {
	g := GetGlobalConfig()
	return func() {
		StoreGlobalConfig(g)
	}
}

// InitializeConfig initialize the global config handler.
// The function enforceCmdArgs is used to merge the config file with command arguments:
// For example, if you start the estimator via the command "selectivity-estimate -L debug",
// you should call this function with enforceCmdArgs setting the log level to "debug".
func InitializeConfig(confPath string, enforceCmdArgs func(*Config)) error {
	cfg := NewConfig()
	if confPath != "" {
		if err := cfg.Load(confPath); err != nil {
			return err
		}
	}
	if enforceCmdArgs != nil {
		enforceCmdArgs(cfg)
	}
	if err := cfg.Valid(); err != nil {
		return err
	}
	StoreGlobalConfig(cfg)
	return nil
}

// Load loads config options from a toml file.
// Options that are not known are reported as ErrInvalidConfig, the known options are still loaded.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return plannererrors.ErrInvalidConfig.GenWithStackByArgs(err.Error())
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		undecodedItems := make([]string, 0, len(undecoded))
		for _, item := range undecoded {
			undecodedItems = append(undecodedItems, item.String())
		}
		return plannererrors.ErrInvalidConfig.GenWithStackByArgs(
			fmt.Sprintf("config file %s contained invalid configuration options: %s", confFile, strings.Join(undecodedItems, ", ")))
	}
	return nil
}

// Valid checks if this config is valid.
func (c *Config) Valid() error {
	var errs error
	if err := c.Log.valid(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := c.Estimator.Valid(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return plannererrors.ErrInvalidConfig.GenWithStackByArgs(errs.Error())
	}
	return nil
}

func (l *Log) valid() error {
	var errs error
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		errs = multierr.Append(errs, errors.Errorf("invalid log level %q", l.Level))
	}
	switch l.Format {
	case "text", "json", "console":
	default:
		errs = multierr.Append(errs, errors.Errorf("invalid log format %q", l.Format))
	}
	return errs
}

// Valid checks the estimator options.
func (e *Estimator) Valid() error {
	var errs error
	if !isFraction(e.DefaultSelectivity) {
		errs = multierr.Append(errs, errors.Errorf("estimator.default-selectivity should be in [0, 1], got %v", e.DefaultSelectivity))
	}
	if !isFraction(e.DefaultEqualSelectivity) {
		errs = multierr.Append(errs, errors.Errorf("estimator.default-eq-selectivity should be in [0, 1], got %v", e.DefaultEqualSelectivity))
	}
	if e.MCVTarget < 0 {
		errs = multierr.Append(errs, errors.Errorf("estimator.mcv-target should not be negative, got %d", e.MCVTarget))
	}
	return errs
}

func isFraction(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}
