// Package config loads the agent config file (spec §6 "Agent config file"):
// a JSON document naming, per server, how to reach it (boot a subprocess,
// or just dial a running URL) plus environment overlays.
//
// Grounded on the teacher's use of spf13/viper for config loading
// (pkg/config in the wider pack, and kadirpekel-hector's joho/godotenv donor
// pattern for the same concern) — viper is kept as the loader since it is
// the teacher's own dependency for this exact job.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// BootSpec describes a subprocess to spawn before dialing a server.
type BootSpec struct {
	Command string         `mapstructure:"command"`
	Args    []string       `mapstructure:"args"`
	Env     map[string]any `mapstructure:"env"`
}

// RunSpec describes an already-running server to dial directly.
type RunSpec struct {
	URL    string `mapstructure:"url"`
	Token  string `mapstructure:"token"`
	APIKey string `mapstructure:"api_key"`
}

// ServerConfig is one entry under a2aServers. Boot and Run are not mutually
// exclusive: when both are set, Boot is spawned first and Run.URL is then
// polled (spec §4.5 initialization semantics). A server with only Boot set
// is rejected by manager.NewFromConfig, since there is no Run.URL to dial.
type ServerConfig struct {
	Boot *BootSpec `mapstructure:"boot"`
	Run  *RunSpec  `mapstructure:"run"`
}

// Config is the top-level agent config file shape.
type Config struct {
	A2AServers map[string]ServerConfig `mapstructure:"a2aServers"`
	GlobalEnv  map[string]any          `mapstructure:"globalEnv"`
}

// Load reads and parses the JSON config file at path.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
