package config

import (
	"os"
	"runtime"

	"github.com/jsphweid/wav2midi/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// number of simultaneous voices
	Peaks int `yaml:"n_peaks"`
	// semitone distance at which a new note starts
	KeyDiff float64 `yaml:"keydiff_threshold"`
	// quarter lengths per frame
	Unit  float64 `yaml:"unit_duration"`
	Tempo float64 `yaml:"tempo"`

	MinBin int `yaml:"min_bin"`
	MaxBin int `yaml:"max_bin"`

	// 0 = NumCPU
	Workers int `yaml:"workers"`
}

func Default() Config {
	return Config{
		Peaks:   constants.DefaultPeaks,
		KeyDiff: constants.DefaultKeyDiff,
		Unit:    constants.UnitDuration,
		Tempo:   constants.DefaultTempo,
		MinBin:  constants.LowBinCutoff,
		MaxBin:  constants.HighBinCutoff,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Peaks <= 0:
		return errors.Wrapf(ErrInvalidConfig, "n_peaks must be positive, got %d", c.Peaks)
	case c.KeyDiff <= 0:
		return errors.Wrapf(ErrInvalidConfig, "keydiff_threshold must be positive, got %v", c.KeyDiff)
	case c.Unit <= 0:
		return errors.Wrapf(ErrInvalidConfig, "unit_duration must be positive, got %v", c.Unit)
	case c.Tempo <= 0:
		return errors.Wrapf(ErrInvalidConfig, "tempo must be positive, got %v", c.Tempo)
	case c.MinBin < 0:
		return errors.Wrapf(ErrInvalidConfig, "min_bin must not be negative, got %d", c.MinBin)
	case c.MaxBin <= c.MinBin:
		return errors.Wrapf(ErrInvalidConfig, "max_bin (%d) must be above min_bin (%d)", c.MaxBin, c.MinBin)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	return nil
}

func (c Config) NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
