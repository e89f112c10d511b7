package config

import (
	"os"
	"strconv"
	"time"

	"tburn-scan.backend/pkg/tburnaddr"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Blockchain BlockchainConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// FactoryAddress is a factory contract address plus whether it came from
// the environment or is a deterministic placeholder.
type FactoryAddress struct {
	Address    string
	Configured bool
}

// BlockchainConfig holds the chain RPC endpoint and the deployment
// surface. Unset factory addresses fall back to deterministic
// placeholders so the service can run before the contracts are live.
type BlockchainConfig struct {
	RPCURL         string
	ChainID        uint64
	TBC20Factory   FactoryAddress
	TBC721Factory  FactoryAddress
	TBC1155Factory FactoryAddress
	ReceiptTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tburnscan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Blockchain: BlockchainConfig{
			RPCURL:         getEnv("TBURN_RPC_URL", "https://rpc.tburn.network"),
			ChainID:        uint64(getEnvAsInt("TBURN_CHAIN_ID", 5800)),
			TBC20Factory:   factoryAddress("TBC20_FACTORY_ADDRESS", "tbc20-factory"),
			TBC721Factory:  factoryAddress("TBC721_FACTORY_ADDRESS", "tbc721-factory"),
			TBC1155Factory: factoryAddress("TBC1155_FACTORY_ADDRESS", "tbc1155-factory"),
			ReceiptTimeout: getEnvAsDuration("RECEIPT_WAIT_TIMEOUT", 60*time.Second),
		},
	}
}

// factoryAddress reads a factory address from the environment, or derives
// a deterministic placeholder from the label when unset.
func factoryAddress(key, label string) FactoryAddress {
	if value := os.Getenv(key); value != "" {
		return FactoryAddress{Address: value, Configured: true}
	}
	return FactoryAddress{Address: tburnaddr.GenerateSystemAddress(label), Configured: false}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
