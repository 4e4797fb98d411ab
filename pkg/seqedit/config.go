package seqedit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of the sequence editor, read from an optional
// YAML file. Flags override individual fields.
type Config struct {
	// DB is the path of the row database.
	DB string `yaml:"db"`
	// Sock is the path of the devtools socket. Empty disables the server.
	Sock string `yaml:"sock"`
	// Color controls styled output: auto, always or never.
	Color string `yaml:"color"`
	// Verbose enables debug logging on stderr.
	Verbose bool `yaml:"verbose"`
}

func defaultConfig() Config {
	return Config{DB: "weft.db", Color: "auto"}
}

func readConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
