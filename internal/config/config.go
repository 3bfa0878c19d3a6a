// Package config handles API server configuration binding and loading.
package config

import "time"

// Config defines configuration options structure for the validator monitor API server.
type Config struct {
	// AppName holds the name of the application
	AppName string `mapstructure:"app_name"`

	// Server configuration
	Server Server `mapstructure:"server"`

	// Log configuration
	Log Log `mapstructure:"log"`

	// Gateway represents the node query gateway configuration
	Gateway Gateway `mapstructure:"gateway"`

	// Cache configuration
	Cache Cache `mapstructure:"cache"`

	// Endpoints lists the node RPC endpoints connected on startup.
	Endpoints []string `mapstructure:"endpoints"`
}

// Server represents the API server configuration
type Server struct {
	BindAddress     string        `mapstructure:"bind"`
	DomainAddress   string        `mapstructure:"domain"`
	Origins         []string      `mapstructure:"origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	HeaderTimeout   time.Duration `mapstructure:"header_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Log represents the logger configuration
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Gateway represents the node connection and dispatch configuration.
type Gateway struct {
	// SetupTimeout bounds a single endpoint connection attempt.
	SetupTimeout time.Duration `mapstructure:"setup_timeout"`

	// CallTimeout bounds every dispatched operation.
	CallTimeout time.Duration `mapstructure:"call_timeout"`

	// ResubscribeTick is the pause between new heads subscription attempts.
	ResubscribeTick time.Duration `mapstructure:"resubscribe_tick"`

	// SetupParallelism limits the number of endpoints connected at once on startup.
	SetupParallelism int `mapstructure:"setup_parallelism"`

	// SS58Format is used when the node does not advertise its own address format.
	SS58Format uint16 `mapstructure:"ss58_format"`
}

// Cache represents the in-memory result cache configuration.
type Cache struct {
	Eviction time.Duration `mapstructure:"eviction"`
	MaxSize  int           `mapstructure:"size"`
}
