package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// Config holds all runtime configuration for the trading game server,
// including the default game parameters used when a create-game request
// omits them.
type Config struct {
	Port            int
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	DefaultGame     domain.GameConfig
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	stepsPerPlayer, err := getInt("STEPS_PER_PLAYER", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid STEPS_PER_PLAYER: %w", err)
	}

	maxContractsPerTrade, err := getInt("MAX_CONTRACTS_PER_TRADE", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONTRACTS_PER_TRADE: %w", err)
	}

	customerMaxSize, err := getInt("CUSTOMER_MAX_SIZE", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid CUSTOMER_MAX_SIZE: %w", err)
	}

	maxContractValue, err := getInt("MAX_CONTRACT_VALUE", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONTRACT_VALUE: %w", err)
	}

	numPlayers, err := getInt("NUM_PLAYERS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid NUM_PLAYERS: %w", err)
	}

	defaultGame := domain.GameConfig{
		StepsPerPlayer:       stepsPerPlayer,
		MaxContractsPerTrade: maxContractsPerTrade,
		CustomerMaxSize:      customerMaxSize,
		MaxContractValue:     maxContractValue,
		NumPlayers:           numPlayers,
	}
	if err := defaultGame.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default game parameters: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
		DefaultGame:     defaultGame,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
