package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "REDIS_KEY", "CANVAS_WIDTH", "CANVAS_HEIGHT", "ANIMATION_TIME_SCALE", "MAX_MANEUVER_STEPS"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 390.0, cfg.CanvasWidth)
	assert.Equal(t, 844.0, cfg.CanvasHeight)
	assert.Equal(t, 1.0, cfg.AnimationTimeScale)
	assert.Equal(t, 32, cfg.MaxManeuverSteps)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CANVAS_WIDTH", "1024")
	t.Setenv("ANIMATION_TIME_SCALE", "0")
	t.Setenv("MAX_MANEUVER_STEPS", "8")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 1024.0, cfg.CanvasWidth)
	assert.Equal(t, 0.0, cfg.AnimationTimeScale)
	assert.Equal(t, 8, cfg.MaxManeuverSteps)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		"CANVAS_WIDTH":         "wide",
		"CANVAS_HEIGHT":        "-1",
		"ANIMATION_TIME_SCALE": "-0.5",
		"MAX_MANEUVER_STEPS":   "0",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}
