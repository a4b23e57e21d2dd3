package model

import "time"

// Config holds all runtime settings
type Config struct {
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// InputConfig bounds what is read from files, stdin and request bodies
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool          `yaml:"verbose" mapstructure:"verbose"`
	Format  string        `yaml:"format" mapstructure:"format"` // text, json, yaml
	Color   bool          `yaml:"color" mapstructure:"color"`
	Delay   time.Duration `yaml:"delay" mapstructure:"delay"` // Cosmetic pause before results, 0 disables
}

type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Mode string `yaml:"mode" mapstructure:"mode"` // gin mode: debug, release, test
}

// RateLimitingConfig applies per client in the HTTP server
type RateLimitingConfig struct {
	RequestsPerSecond float64      `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int          `yaml:"burst_size" mapstructure:"burst_size"`
	Clients           []ClientRate `yaml:"clients,omitempty" mapstructure:"clients"`
}

// ClientRate overrides the rate for one client IP; 0 or less exempts it
type ClientRate struct {
	Client            string  `yaml:"client" mapstructure:"client"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxBytes: 1 << 20,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr: ":8090",
			Mode: "release",
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
