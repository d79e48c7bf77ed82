// Package config loads the REPL's cosmetic configuration — banner,
// prompt, license line, and whether to colorize output — from an
// optional YAML file, falling back to built-in defaults when the file
// is absent or incomplete.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the dotfile name the CLI passes to Load; being relative,
// it is resolved against the current working directory.
const FileName = ".loxwalkrc.yaml"

// Config holds every REPL cosmetic setting a user can override.
type Config struct {
	Banner  string `yaml:"banner"`
	Version string `yaml:"version"`
	Author  string `yaml:"author"`
	License string `yaml:"license"`
	Line    string `yaml:"line"`
	Prompt  string `yaml:"prompt"`
	Color   bool   `yaml:"color"`
}

// Default returns the built-in configuration used when no config file
// is found.
func Default() *Config {
	return &Config{
		Banner:  defaultBanner,
		Version: "0.1.0",
		Author:  "loxwalk",
		License: "MIT",
		Line:    "----------------------------------------",
		Prompt:  "lox> ",
		Color:   true,
	}
}

const defaultBanner = `
  _                          _ _
 | | _____  ___      ____ _| | | __
 | |/ _ \ \/ \ \ /\ / / _' | | |/ /
 | | (_) >  < \ V  V / (_| | |   <
 |_|\___/_/\_\ \_/\_/ \__,_|_|_|\_\
`

// Load reads path and overlays it onto the defaults; a missing file is
// not an error, it just means Default() is returned unchanged. A
// present-but-invalid file returns the parse error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
