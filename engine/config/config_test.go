package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhearth/tribeai/engine/attack"
)

func TestDefaultPersonalityIsNormal(t *testing.T) {
	cfg := Default()
	p, err := cfg.Personality()
	require.NoError(t, err)
	assert.Equal(t, attack.Normal, p)
	assert.Equal(t, 40, cfg.Cadences.AttackMinSeconds)
	assert.Equal(t, 120, cfg.Cadences.AttackMaxSeconds)
}

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "ai.toml")
	cfg := Default()
	cfg.PersonalityName = "aggressive"
	cfg.Cadences.AttackMinSeconds = 30

	require.NoError(t, Save(path, cfg))
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)

	p, err := reloaded.Personality()
	require.NoError(t, err)
	assert.Equal(t, attack.Aggressive, p)
}

func TestPersonalityRejectsUnknownValue(t *testing.T) {
	cfg := Default()
	cfg.PersonalityName = "berserk"
	_, err := cfg.Personality()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPersonality)
}
