package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings holds host-specific knobs: toolchain binaries and behavioral run
// limits. It never affects what is checked, only how programs are executed.
type Settings struct {
	Toolchain struct {
		Python string `yaml:"python"`
		Rustc  string `yaml:"rustc"`
		CXX    string `yaml:"cxx"`
	} `yaml:"toolchain"`
	Behavioral struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Workdir        string `yaml:"workdir"`
	} `yaml:"behavioral"`
}

// LoadSettings loads config.yaml if present and applies env overrides.
// A missing settings file is not an error; defaults cover everything.
func LoadSettings(path string) (*Settings, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := &Settings{}
	cfg.Toolchain.Python = "python3"
	cfg.Toolchain.Rustc = "rustc"
	cfg.Toolchain.CXX = "c++"
	cfg.Behavioral.TimeoutSeconds = 10
	cfg.Behavioral.Workdir = os.TempDir()

	// 2. Load YAML config
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("XLCHECK_PYTHON"); v != "" {
		cfg.Toolchain.Python = v
	}
	if v := os.Getenv("XLCHECK_RUSTC"); v != "" {
		cfg.Toolchain.Rustc = v
	}
	if v := os.Getenv("XLCHECK_CXX"); v != "" {
		cfg.Toolchain.CXX = v
	}
	if v := os.Getenv("XLCHECK_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Behavioral.TimeoutSeconds = n
		}
	}

	return cfg, nil
}
