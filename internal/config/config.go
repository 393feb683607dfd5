package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names for the two credential pairs.
const (
	EnvTestnetAPIKey    = "TESTNET_API_KEY"
	EnvTestnetSecretKey = "TESTNET_SECRET_KEY"
	EnvMainnetAPIKey    = "MAINNET_API_KEY"
	EnvMainnetSecretKey = "MAINNET_SECRET_KEY"
)

// ErrMissingCredentials reports which variable is empty for the selected network.
type ErrMissingCredentials struct {
	Variable string
}

func (e *ErrMissingCredentials) Error() string {
	return fmt.Sprintf("%s is required", e.Variable)
}

type Config struct {
	Environment string
	Testnet     bool

	TestnetAPIKey    string
	TestnetSecretKey string
	MainnetAPIKey    string
	MainnetSecretKey string

	HTTPTimeout time.Duration

	Logging struct {
		Level       string
		File        string
		ConsoleOnly bool
	}

	Monitoring struct {
		PrometheusPort int
	}
}

// LoadEnvFile loads key/value pairs from envFile into the process
// environment. A missing file is not an error; variables may come from the
// real environment instead.
func LoadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file %s: %w", envFile, err)
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// Load builds a Config from the process environment.
func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		Testnet:     getEnvBool("BINANCE_TESTNET", true),

		TestnetAPIKey:    getEnv(EnvTestnetAPIKey, ""),
		TestnetSecretKey: getEnv(EnvTestnetSecretKey, ""),
		MainnetAPIKey:    getEnv(EnvMainnetAPIKey, ""),
		MainnetSecretKey: getEnv(EnvMainnetSecretKey, ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}

	cfg.Logging.Level = getEnv("LOG_LEVEL", "debug")
	cfg.Logging.File = getEnv("LOG_FILE", "info.log")
	cfg.Logging.ConsoleOnly = getEnvBool("LOG_CONSOLE_ONLY", false)
	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 0)

	return cfg
}

// Credentials returns the key pair for the selected network.
func (c *Config) Credentials() (apiKey, secretKey string) {
	if c.Testnet {
		return c.TestnetAPIKey, c.TestnetSecretKey
	}
	return c.MainnetAPIKey, c.MainnetSecretKey
}

// Validate checks that the selected network has both keys.
func (c *Config) Validate() error {
	keyVar, secretVar := EnvMainnetAPIKey, EnvMainnetSecretKey
	if c.Testnet {
		keyVar, secretVar = EnvTestnetAPIKey, EnvTestnetSecretKey
	}

	apiKey, secretKey := c.Credentials()
	if apiKey == "" {
		return &ErrMissingCredentials{Variable: keyVar}
	}
	if secretKey == "" {
		return &ErrMissingCredentials{Variable: secretVar}
	}
	return nil
}

// NetworkName returns "testnet" or "mainnet".
func (c *Config) NetworkName() string {
	if c.Testnet {
		return "testnet"
	}
	return "mainnet"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
