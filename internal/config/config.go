package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
)

// Config holds service configuration.
type Config struct {
	ServerAddr        string
	Thresholds        consensus.ThresholdTable
	WeightedVoting    bool
	VoteWindow        time.Duration
	LivenessWindow    time.Duration
	DeadManWindow     time.Duration
	ReputationReward  float64
	ReputationPenalty float64
	ReputationFloor   float64
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	thresholds := consensus.DefaultThresholds()
	if raw := os.Getenv("CONSENSUS_THRESHOLDS"); raw != "" {
		parsed, err := consensus.ParseThresholdTable(raw)
		if err != nil {
			return nil, fmt.Errorf("parse CONSENSUS_THRESHOLDS: %w", err)
		}
		thresholds = parsed
	}

	cfg := &Config{
		ServerAddr:        getenv("SERVER_ADDR", "0.0.0.0:8080"),
		Thresholds:        thresholds,
		WeightedVoting:    parseBool(getenv("CONSENSUS_WEIGHTED", "false"), false),
		VoteWindow:        parseDuration(getenv("CONSENSUS_VOTE_WINDOW", "300s"), 300*time.Second),
		LivenessWindow:    parseDuration(getenv("LIVENESS_WINDOW", "300s"), 300*time.Second),
		DeadManWindow:     parseDuration(getenv("DEAD_MAN_WINDOW", "24h"), 24*time.Hour),
		ReputationReward:  parseFloat(getenv("REPUTATION_REWARD", "0.01"), 0.01),
		ReputationPenalty: parseFloat(getenv("REPUTATION_PENALTY", "0.02"), 0.02),
		ReputationFloor:   parseFloat(getenv("REPUTATION_FLOOR", "0.05"), 0.05),
	}

	if cfg.ReputationReward < 0 || cfg.ReputationPenalty < 0 {
		return nil, fmt.Errorf("reputation steps must be non-negative")
	}
	if cfg.ReputationFloor < 0 || cfg.ReputationFloor > 1 {
		return nil, fmt.Errorf("reputation floor must be in [0,1]")
	}
	if cfg.VoteWindow <= 0 || cfg.LivenessWindow <= 0 || cfg.DeadManWindow <= 0 {
		return nil, fmt.Errorf("windows must be positive")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return f
}
