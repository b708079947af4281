package usecase

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds request defaults and limits.
type Config struct {
	MaxSimulations     int     // Requests above this are capped with a warning
	DefaultSimulations int     // Used when the request omits numSimulations
	DefaultYears       int     // Used when the request omits years
	MaxYears           int     // Longest accepted horizon
	DefaultFDRate      float64 // Fixed-deposit benchmark when omitted
	Workers            int     // Engine goroutines, 0 means GOMAXPROCS
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() Config {
	return Config{
		MaxSimulations:     50_000,
		DefaultSimulations: 10_000,
		DefaultYears:       5,
		MaxYears:           50,
		DefaultFDRate:      0.07,
	}
}

// LoadConfig reads SIM_MAX_SIMULATIONS, SIM_DEFAULT_SIMULATIONS and SIM_WORKERS
// over DefaultConfig.
func LoadConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxSimulations = getInt("SIM_MAX_SIMULATIONS", cfg.MaxSimulations)
	cfg.DefaultSimulations = min(getInt("SIM_DEFAULT_SIMULATIONS", cfg.DefaultSimulations), cfg.MaxSimulations)
	cfg.Workers = getInt("SIM_WORKERS", cfg.Workers)
	return cfg
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}
