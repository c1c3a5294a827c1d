// ABOUTME: Optional YAML config file for the dashboard CLI. Flags override
// ABOUTME: file values, which override the compiled-in defaults.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file shape. Every field is optional.
type fileConfig struct {
	Addr        string `yaml:"addr"`
	Port        int    `yaml:"port"`
	Model       string `yaml:"model"`
	AIURL       string `yaml:"aiUrl"`
	DataURL     string `yaml:"dataUrl"`
	UpstreamURL string `yaml:"upstreamUrl"`
	CachePath   string `yaml:"cachePath"`
}

// loadConfigFile parses a YAML config file. A missing file is an error only
// when the path was given explicitly.
func loadConfigFile(path string, explicit bool) (fileConfig, error) {
	var cfg fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// merge fills unset fields of cfg from the file values.
func (c *config) merge(file fileConfig) {
	if c.addr == "" {
		c.addr = file.Addr
	}
	if c.port == 0 {
		c.port = file.Port
	}
	if c.model == "" {
		c.model = file.Model
	}
	if c.aiURL == "" {
		c.aiURL = file.AIURL
	}
	if c.dataURL == "" {
		c.dataURL = file.DataURL
	}
	if c.upstreamURL == "" {
		c.upstreamURL = file.UpstreamURL
	}
	if c.cachePath == "" {
		c.cachePath = file.CachePath
	}
}
