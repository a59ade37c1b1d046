package config

import (
	"os"
	"strconv"

	"lottolab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Lotto    LottoConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LottoConfig holds draw storage and ingestion settings
type LottoConfig struct {
	// StorageBackend selects the draw repository: "postgres" or "file".
	StorageBackend string
	// DataFile is the JSON draw store path for the file backend.
	DataFile string
	// ExcelFile, when set, seeds the draw store from an xlsx/csv export.
	ExcelFile string
	// SourceURL is the base URL of the official draw result endpoint.
	SourceURL string
}

// AnalysisConfig holds the tunable knobs of the analysis engine.
type AnalysisConfig struct {
	// PValueThreshold decides pass/fail labeling in the randomness suite.
	PValueThreshold float64
	// DependencyLagMax is how many lags the dependency test examines.
	DependencyLagMax int
	// DistributionSampleCap bounds both exact enumeration size and the
	// Monte Carlo sample count, keeping worst-case latency fixed.
	DistributionSampleCap int
	// BitEncoding selects the bitstream encoding: presence, parity, binary.
	BitEncoding string
	// BlockSize is the block length of the block-frequency sub-test.
	BlockSize int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Lotto: LottoConfig{
			StorageBackend: getEnvOrDefault("LOTTO_STORAGE_BACKEND", "file"),
			DataFile:       getEnvOrDefault("LOTTO_DATA_FILE", "./data/draws.json"),
			ExcelFile:      getEnvOrDefault("LOTTO_EXCEL_FILE", ""),
			SourceURL:      getEnvOrDefault("LOTTO_SOURCE_URL", "https://www.dhlottery.co.kr"),
		},
		Analysis: AnalysisConfig{
			PValueThreshold:       getEnvFloatOrDefault("ANALYSIS_P_VALUE_THRESHOLD", 0.01),
			DependencyLagMax:      getEnvIntOrDefault("ANALYSIS_DEPENDENCY_LAG_MAX", 5),
			DistributionSampleCap: getEnvIntOrDefault("ANALYSIS_DISTRIBUTION_SAMPLE_CAP", 200_000),
			BitEncoding:           getEnvOrDefault("ANALYSIS_BIT_ENCODING", "presence"),
			BlockSize:             getEnvIntOrDefault("ANALYSIS_BLOCK_SIZE", 128),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Lotto.StorageBackend {
	case "file":
		if config.Lotto.DataFile == "" {
			return errors.ConfigInvalid("LOTTO_DATA_FILE is required for the file backend")
		}
	case "postgres":
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres backend")
		}
	default:
		return errors.ConfigInvalid("LOTTO_STORAGE_BACKEND must be postgres or file")
	}

	a := config.Analysis
	if a.PValueThreshold <= 0 || a.PValueThreshold >= 1 {
		return errors.ConfigInvalid("ANALYSIS_P_VALUE_THRESHOLD must be in (0,1)")
	}
	if a.DependencyLagMax < 1 {
		return errors.ConfigInvalid("ANALYSIS_DEPENDENCY_LAG_MAX must be at least 1")
	}
	if a.DistributionSampleCap < 1000 {
		return errors.ConfigInvalid("ANALYSIS_DISTRIBUTION_SAMPLE_CAP must be at least 1000")
	}
	if a.BlockSize < 8 {
		return errors.ConfigInvalid("ANALYSIS_BLOCK_SIZE must be at least 8")
	}
	switch a.BitEncoding {
	case "presence", "parity", "binary":
	default:
		return errors.ConfigInvalid("ANALYSIS_BIT_ENCODING must be presence, parity or binary")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
