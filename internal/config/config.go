package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/squares/internal/pool"
)

// Config represents the complete squares configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Pool   PoolSettings   `hcl:"pool,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// PoolSettings configures the one pool a process runs
type PoolSettings struct {
	PricePerSquare int          `hcl:"price_per_square,optional"`
	Seed           int64        `hcl:"seed,optional"`
	Teams          []TeamConfig `hcl:"team,block"`
}

// TeamConfig names one side of the game. The label is the score key.
type TeamConfig struct {
	Key  string `hcl:"key,label"`
	Name string `hcl:"name,optional"`
}

const (
	defaultAddress  = "localhost"
	defaultPort     = 8080
	defaultLogLevel = "info"
	defaultPrice    = 1
)

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}
	if c.Pool.PricePerSquare == 0 {
		c.Pool.PricePerSquare = defaultPrice
	}
	if len(c.Pool.Teams) == 0 {
		for _, t := range pool.DefaultTeams {
			c.Pool.Teams = append(c.Pool.Teams, TeamConfig{Key: t.Key, Name: t.Name})
		}
	}
	for i := range c.Pool.Teams {
		if c.Pool.Teams[i].Name == "" {
			c.Pool.Teams[i].Name = c.Pool.Teams[i].Key
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.Pool.PricePerSquare < 1 {
		return fmt.Errorf("price per square must be positive, got %d", c.Pool.PricePerSquare)
	}
	if len(c.Pool.Teams) != 2 {
		return fmt.Errorf("exactly two teams must be configured, got %d", len(c.Pool.Teams))
	}
	a, b := c.Pool.Teams[0], c.Pool.Teams[1]
	if strings.TrimSpace(a.Key) == "" || strings.TrimSpace(b.Key) == "" {
		return fmt.Errorf("team keys must not be empty")
	}
	if a.Key == b.Key {
		return fmt.Errorf("team keys must differ, both are %q", a.Key)
	}
	if a.Name == b.Name {
		return fmt.Errorf("team names must differ, both are %q", a.Name)
	}
	return nil
}

// Address returns the full server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Teams returns the configured teams. Call Validate first.
func (c *Config) Teams() [2]pool.Team {
	var teams [2]pool.Team
	for i := range teams {
		if i < len(c.Pool.Teams) {
			teams[i] = pool.Team{Key: c.Pool.Teams[i].Key, Name: c.Pool.Teams[i].Name}
		}
	}
	return teams
}

// PoolOptions translates the pool block into engine options. The random
// source is left to the caller, which owns seeding.
func (c *Config) PoolOptions() []pool.Option {
	return []pool.Option{
		pool.WithTeams(c.Teams()),
		pool.WithPrice(c.Pool.PricePerSquare),
	}
}
