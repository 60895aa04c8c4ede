package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the server.
// Vehicle dimensions and the turning radius are constants, not settings.
type Config struct {
	Port               string
	DatabaseURL        string
	RedisURL           string
	RedisKey           string
	CanvasWidth        float64
	CanvasHeight       float64
	AnimationTimeScale float64
	MaxManeuverSteps   int
}

// Load reads .env (if present) into the environment, then the settings.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		RedisKey:    Get("REDIS_KEY", "car-maneuver:vehicle"),
	}

	var err error
	if cfg.CanvasWidth, err = GetFloat("CANVAS_WIDTH", 390); err != nil {
		return Config{}, err
	}
	if cfg.CanvasHeight, err = GetFloat("CANVAS_HEIGHT", 844); err != nil {
		return Config{}, err
	}
	if cfg.AnimationTimeScale, err = GetFloat("ANIMATION_TIME_SCALE", 1); err != nil {
		return Config{}, err
	}
	if cfg.MaxManeuverSteps, err = GetInt("MAX_MANEUVER_STEPS", 32); err != nil {
		return Config{}, err
	}

	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return Config{}, fmt.Errorf("config: canvas size must be positive, got %vx%v", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.AnimationTimeScale < 0 {
		return Config{}, fmt.Errorf("config: ANIMATION_TIME_SCALE must not be negative, got %v", cfg.AnimationTimeScale)
	}
	if cfg.MaxManeuverSteps < 1 {
		return Config{}, fmt.Errorf("config: MAX_MANEUVER_STEPS must be at least 1, got %d", cfg.MaxManeuverSteps)
	}

	return cfg, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return f, nil
}

func GetInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}
