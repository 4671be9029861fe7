package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/nats-io/nats.go"
	"gopkg.in/yaml.v3"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/timer"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	Auth struct {
		Secret string `yaml:"secret"`
	} `yaml:"auth"`
	Game struct {
		DrawIntervalSec int `yaml:"draw_interval_sec"`
		CountdownSec    int `yaml:"countdown_sec"`
		MinPlayers      int `yaml:"min_players"`
	} `yaml:"game"`
}

func defaultConfig() *Config {
	var config Config
	config.Server.Port = "8080"
	config.NATS.URL = nats.DefaultURL
	config.NATS.SubjectPrefix = broadcast.DefaultSubjectPrefix
	config.Game.DrawIntervalSec = 5
	config.Game.CountdownSec = timer.DefaultCountdownSeconds
	config.Game.MinPlayers = timer.DefaultMinPlayers
	return &config
}

// loadConfig reads the yaml config file and applies environment overrides.
// A missing file falls back to the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Run on defaults and env only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.NATS.URL = getEnv("NATS_URL", config.NATS.URL)
	config.Auth.Secret = getEnv("AUTH_SECRET", config.Auth.Secret)
	config.Game.DrawIntervalSec = getEnvAsInt("DRAW_INTERVAL_SEC", config.Game.DrawIntervalSec)
	config.Game.CountdownSec = getEnvAsInt("COUNTDOWN_SEC", config.Game.CountdownSec)
	config.Game.MinPlayers = getEnvAsInt("MIN_PLAYERS", config.Game.MinPlayers)

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
