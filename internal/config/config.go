// Package config loads handscan settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCascade   = "HANDSCAN_CASCADE"
	EnvInput     = "HANDSCAN_INPUT"
	EnvOutput    = "HANDSCAN_OUTPUT"
	EnvCSV       = "HANDSCAN_CSV"
	EnvDB        = "HANDSCAN_DB"
	EnvHistory   = "HANDSCAN_HISTORY"
	EnvThickness = "HANDSCAN_THICKNESS"
	EnvDebug     = "HANDSCAN_DEBUG"
)

// CSVName is the default CSV file name inside the output directory.
const CSVName = "results.csv"

// Config holds the settings for a benchmark run.
type Config struct {
	CascadePath string
	InputPath   string
	OutputDir   string
	// CSVPath defaults to CSVName inside OutputDir when empty.
	CSVPath string
	DBPath  string
	History bool
	// Thickness overrides the per-mode rectangle thickness when > 0.
	Thickness int
	Debug     bool
}

// Load reads an optional .env file from the working directory and builds a
// Config from the environment. Variables already set win over .env entries.
func Load() *Config {
	// A missing .env is normal.
	_ = godotenv.Load()

	return &Config{
		CascadePath: getEnv(EnvCascade, filepath.Join("resources", "hand.xml")),
		InputPath:   getEnv(EnvInput, filepath.Join("images", "input")),
		OutputDir:   getEnv(EnvOutput, filepath.Join("images", "output")),
		CSVPath:     getEnv(EnvCSV, ""),
		DBPath:      getEnv(EnvDB, defaultDBPath()),
		History:     getEnvAsBool(EnvHistory, true),
		Thickness:   getEnvAsInt(EnvThickness, 0),
		Debug:       getEnvAsBool(EnvDebug, false),
	}
}

// ResolvedCSVPath returns CSVPath, or CSVName inside OutputDir when unset.
func (c *Config) ResolvedCSVPath() string {
	if c.CSVPath != "" {
		return c.CSVPath
	}
	return filepath.Join(c.OutputDir, CSVName)
}

// defaultDBPath places the history database under ~/.handscan.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".handscan", "handscan.db")
	}
	return filepath.Join(homeDir, ".handscan", "handscan.db")
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
