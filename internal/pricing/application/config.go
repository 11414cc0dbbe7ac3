package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ImportConfig defines fuel price import configuration.
type ImportConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DatasetURL string `yaml:"dataset_url"`
	WeeksBack  int    `yaml:"weeks_back"`
	DailyAt    string `yaml:"daily_at"`
}

// LoadImportConfig loads config from yaml or env.
func LoadImportConfig() (ImportConfig, error) {
	cfg := ImportConfig{
		Enabled:    getenvBoolDefault("FUEL_IMPORT_ENABLED", true),
		DatasetURL: os.Getenv("FUEL_IMPORT_DATASET_URL"),
		WeeksBack:  getenvIntDefault("FUEL_IMPORT_WEEKS_BACK", 8),
		DailyAt:    getenvDefault("FUEL_IMPORT_DAILY_AT", "06:30"),
	}

	if path := os.Getenv("FUEL_IMPORT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.WeeksBack <= 0 {
		cfg.WeeksBack = 8
	}
	if cfg.DailyAt == "" {
		cfg.DailyAt = "06:30"
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
