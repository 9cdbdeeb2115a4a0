package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	assert := assert.New(t)
	assert.NoError(cfg.Validate())
	assert.Equal(12, cfg.Peaks)
	assert.Equal(2.0, cfg.KeyDiff)
	assert.Equal(0.25, cfg.Unit)
	assert.Equal(6, cfg.MinBin)
	assert.Equal(172, cfg.MaxBin)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero peaks":       func(c *Config) { c.Peaks = 0 },
		"negative peaks":   func(c *Config) { c.Peaks = -3 },
		"zero keydiff":     func(c *Config) { c.KeyDiff = 0 },
		"negative keydiff": func(c *Config) { c.KeyDiff = -1 },
		"zero unit":        func(c *Config) { c.Unit = 0 },
		"zero tempo":       func(c *Config) { c.Tempo = 0 },
		"negative min bin": func(c *Config) { c.MinBin = -1 },
		"inverted band":    func(c *Config) { c.MaxBin = c.MinBin },
		"negative workers": func(c *Config) { c.Workers = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wav2midi.yaml")
	err := os.WriteFile(path, []byte("n_peaks: 4\nkeydiff_threshold: 1.5\n"), 0666)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(4, cfg.Peaks)
	assert.Equal(1.5, cfg.KeyDiff)
	assert.Equal(Default().Tempo, cfg.Tempo)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wav2midi.yaml")
	err := os.WriteFile(path, []byte("n_peaks: 0\n"), 0666)
	require.NoError(t, err)

	_, err = Load(path)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNumWorkers(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.NumWorkers(), 0)

	cfg.Workers = 3
	assert.Equal(t, 3, cfg.NumWorkers())
}
