package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/holdem/internal/engine"
)

// Config represents the complete room server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings defines the table the room runs
type TableSettings struct {
	SmallBlind         int  `hcl:"small_blind"`
	BigBlind           int  `hcl:"big_blind"`
	StartingChips      int  `hcl:"starting_chips,optional"`
	MaxSeats           int  `hcl:"max_seats,optional"`
	TurnTimeoutSeconds int  `hcl:"turn_timeout_seconds,optional"`
	AutoStart          bool `hcl:"auto_start,optional"`
}

// DefaultConfig returns the default room configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			SmallBlind:         10,
			BigBlind:           20,
			StartingChips:      1000,
			MaxSeats:           9,
			TurnTimeoutSeconds: 30,
			AutoStart:          true,
		},
	}
}

// LoadConfig loads room configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Table.StartingChips == 0 {
		config.Table.StartingChips = config.Table.BigBlind * 50
	}
	if config.Table.MaxSeats == 0 {
		config.Table.MaxSeats = 9
	}
	if config.Table.TurnTimeoutSeconds == 0 {
		config.Table.TurnTimeoutSeconds = 30
	}

	return &config, nil
}

// Validate validates the room configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Table.StartingChips < c.Table.BigBlind {
		return fmt.Errorf("starting chips %d cannot cover the big blind", c.Table.StartingChips)
	}
	if c.Table.MaxSeats < 2 || c.Table.MaxSeats > 10 {
		return fmt.Errorf("max seats must be between 2 and 10")
	}
	if c.Table.TurnTimeoutSeconds < 1 {
		return fmt.Errorf("turn timeout must be at least one second")
	}
	return nil
}

// Addr returns the full listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// EngineSettings converts the table block into engine settings
func (c *Config) EngineSettings() engine.Settings {
	return engine.Settings{
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		StartingChips: c.Table.StartingChips,
		MaxSeats:      c.Table.MaxSeats,
	}
}
