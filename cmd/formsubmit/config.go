package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config drives the CLI. Values resolve in order: config file, .env file,
// process environment, then flags; later sources win.
type Config struct {
	BaseURL string `yaml:"baseUrl"`
	Form    string `yaml:"form"`
	// File is an optional attachment path submitted with the form.
	File string `yaml:"file"`
	// Verbose enables debug logging on stderr.
	Verbose bool `yaml:"verbose"`
}

const (
	envBaseURL = "FORMSUBMIT_BASE_URL"
	envForm    = "FORMSUBMIT_FORM"
	envFile    = "FORMSUBMIT_FILE"
)

// loadConfig reads an optional YAML config and an optional .env file, then
// applies environment overrides. Missing files are only an error when they
// were named explicitly.
func loadConfig(configPath, envPath string) (Config, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	} else {
		// Best effort: a .env beside the invocation is convenient but optional.
		_ = godotenv.Load()
	}

	if v := strings.TrimSpace(os.Getenv(envBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envForm)); v != "" {
		cfg.Form = v
	}
	if v := strings.TrimSpace(os.Getenv(envFile)); v != "" {
		cfg.File = v
	}
	return cfg, nil
}
