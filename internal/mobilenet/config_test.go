package mobilenet

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1000, cfg.NumClasses)
	assert.Equal(t, 1.0, cfg.WidthMultiplier)
	assert.Equal(t, 8, cfg.RoundTo)
	assert.Equal(t, 0.2, cfg.DropoutRate)
	assert.Equal(t, 3, cfg.InputChannels)
	assert.Equal(t, DefaultStages(), cfg.Stages)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero classes", func(c *Config) { c.NumClasses = 0 }, "num_classes"},
		{"negative classes", func(c *Config) { c.NumClasses = -3 }, "num_classes"},
		{"zero width", func(c *Config) { c.WidthMultiplier = 0 }, "width_multiplier"},
		{"negative width", func(c *Config) { c.WidthMultiplier = -0.5 }, "width_multiplier"},
		{"NaN width", func(c *Config) { c.WidthMultiplier = math.NaN() }, "width_multiplier"},
		{"infinite width", func(c *Config) { c.WidthMultiplier = math.Inf(1) }, "width_multiplier"},
		{"negative infinite width", func(c *Config) { c.WidthMultiplier = math.Inf(-1) }, "width_multiplier"},
		{"zero round_to", func(c *Config) { c.RoundTo = 0 }, "round_to"},
		{"dropout one", func(c *Config) { c.DropoutRate = 1 }, "dropout"},
		{"negative dropout", func(c *Config) { c.DropoutRate = -0.1 }, "dropout"},
		{"NaN dropout", func(c *Config) { c.DropoutRate = math.NaN() }, "dropout"},
		{"no input channels", func(c *Config) { c.InputChannels = 0 }, "input_channels"},
		{"empty stages", func(c *Config) { c.Stages = nil }, "stages"},
		{"zero repeats", func(c *Config) { c.Stages[3].Repeats = 0 }, "stages[3].n"},
		{"zero stride", func(c *Config) { c.Stages[0].Stride = 0 }, "stages[0].s"},
		{"zero expansion", func(c *Config) { c.Stages[1].Expansion = 0 }, "stages[1].t"},
		{"negative channels", func(c *Config) { c.Stages[6].Channels = -1 }, "stages[6].c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_ValidateAcceptsZeroDropout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DropoutRate = 0

	assert.NoError(t, cfg.Validate())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoadConfig_Partial checks omitted fields keep their defaults.
func TestLoadConfig_Partial(t *testing.T) {
	path := writeFile(t, `{"num_classes": 10, "width_multiplier": 0.5, "seed": 7}`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.NumClasses)
	assert.Equal(t, 0.5, cfg.WidthMultiplier)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 8, cfg.RoundTo)
	assert.Equal(t, 0.2, cfg.DropoutRate)
	assert.Equal(t, DefaultStages(), cfg.Stages)
}

func TestLoadConfig_Stages(t *testing.T) {
	path := writeFile(t, `{"stages": [{"t": 1, "c": 16, "n": 1, "s": 1}, {"t": 6, "c": 24, "n": 2, "s": 2}]}`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, []StageSpec{
		{Expansion: 1, Channels: 16, Repeats: 1, Stride: 1},
		{Expansion: 6, Channels: 24, Repeats: 2, Stride: 2},
	}, cfg.Stages)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, `{"num_classes": `))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, `{"classes": 10}`))
	assert.ErrorContains(t, err, "unknown field")

	_, err = LoadConfig(writeFile(t, `{"num_classes": 0}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_SaveLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumClasses = 37
	cfg.WidthMultiplier = 0.75
	cfg.Seed = 11
	path := filepath.Join(t.TempDir(), "saved.json")

	require.NoError(t, cfg.Save(path))
	loaded, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
