package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// default configuration elements and keys
const (
	configFileName = "monitor"
	envPrefix      = "MONITOR"

	// configuration options
	keyAppName               = "app_name"
	keyBindAddress           = "server.bind"
	keyDomainAddress         = "server.domain"
	keyOrigins               = "server.origins"
	keyReadTimeout           = "server.read_timeout"
	keyWriteTimeout          = "server.write_timeout"
	keyIdleTimeout           = "server.idle_timeout"
	keyHeaderTimeout         = "server.header_timeout"
	keyShutdownTimeout       = "server.shutdown_timeout"
	keyLoggingLevel          = "log.level"
	keyLoggingFormat         = "log.format"
	keySetupTimeout          = "gateway.setup_timeout"
	keyCallTimeout           = "gateway.call_timeout"
	keyResubscribeTick       = "gateway.resubscribe_tick"
	keySetupParallelism      = "gateway.setup_parallelism"
	keySS58Format            = "gateway.ss58_format"
	keyCacheEvictionInterval = "cache.eviction"
	keyCacheMaxSize          = "cache.size"
	keyEndpoints             = "endpoints"
)

// default values
const (
	defaultAppName          = "validator-monitor"
	defaultBindAddress      = "localhost:16761"
	defaultDomainAddress    = "localhost:16761"
	defaultLoggingLevel     = "INFO"
	defaultLoggingFormat    = "%{color}%{level:-8s} %{shortpkg}/%{shortfunc}%{color:reset}: %{message}"
	defaultSetupTimeout     = 10 * time.Second
	defaultCallTimeout      = 10 * time.Second
	defaultResubscribeTick  = 30 * time.Second
	defaultSetupParallelism = 8
	defaultSS58Format       = 42
	defaultCacheEviction    = 15 * time.Minute
	defaultCacheMaxSize     = 256
)

// cfgFile holds the path to the configuration file given on the command line.
var cfgFile string

// Load provides a loaded configuration for the API server.
func Load() (*Config, error) {
	flag.StringVar(&cfgFile, "cfg", "", "Path to a configuration file.")
	flag.Parse()
	return LoadFrom(cfgFile)
}

// LoadFrom reads the configuration from the given file, or from the default
// locations if the path is empty.
func LoadFrom(path string) (*Config, error) {
	cfg := reader(path)

	// try to read the file; a missing default file is fine, we have defaults
	if err := cfg.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("can not read configuration; %w", err)
		}
	}

	var config Config
	if err := cfg.Unmarshal(&config, setupConfigUnmarshaler); err != nil {
		return nil, fmt.Errorf("can not decode configuration; %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// reader provides instance of the config reader.
func reader(path string) *viper.Viper {
	cfg := viper.New()

	if path != "" {
		cfg.SetConfigFile(path)
	} else {
		cfg.SetConfigName(configFileName)
		cfg.AddConfigPath(".")
		cfg.AddConfigPath("$HOME/.monitor")
		cfg.AddConfigPath("/etc/monitor")
	}

	// environment overrides, i.e. MONITOR_GATEWAY_CALL_TIMEOUT
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for configuration options.
func applyDefaults(cfg *viper.Viper) {
	cfg.SetDefault(keyAppName, defaultAppName)
	cfg.SetDefault(keyBindAddress, defaultBindAddress)
	cfg.SetDefault(keyDomainAddress, defaultDomainAddress)
	cfg.SetDefault(keyOrigins, []string{"*"})
	cfg.SetDefault(keyReadTimeout, 5*time.Second)
	cfg.SetDefault(keyWriteTimeout, 30*time.Second)
	cfg.SetDefault(keyIdleTimeout, time.Minute)
	cfg.SetDefault(keyHeaderTimeout, time.Second)
	cfg.SetDefault(keyShutdownTimeout, 10*time.Second)
	cfg.SetDefault(keyLoggingLevel, defaultLoggingLevel)
	cfg.SetDefault(keyLoggingFormat, defaultLoggingFormat)
	cfg.SetDefault(keySetupTimeout, defaultSetupTimeout)
	cfg.SetDefault(keyCallTimeout, defaultCallTimeout)
	cfg.SetDefault(keyResubscribeTick, defaultResubscribeTick)
	cfg.SetDefault(keySetupParallelism, defaultSetupParallelism)
	cfg.SetDefault(keySS58Format, defaultSS58Format)
	cfg.SetDefault(keyCacheEvictionInterval, defaultCacheEviction)
	cfg.SetDefault(keyCacheMaxSize, defaultCacheMaxSize)
	cfg.SetDefault(keyEndpoints, []string{})
}

// setupConfigUnmarshaler configures the decoder hooks used to map configuration values.
func setupConfigUnmarshaler(cfg *mapstructure.DecoderConfig) {
	cfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// validate checks the loaded configuration for values the server can not run with.
func (c *Config) validate() error {
	if c.Gateway.SetupTimeout <= 0 {
		return fmt.Errorf("invalid gateway setup timeout %s", c.Gateway.SetupTimeout)
	}
	if c.Gateway.CallTimeout <= 0 {
		return fmt.Errorf("invalid gateway call timeout %s", c.Gateway.CallTimeout)
	}
	if c.Gateway.SetupParallelism < 1 {
		c.Gateway.SetupParallelism = 1
	}

	// drop empty and duplicate endpoints, keep the configured order
	seen := make(map[string]bool, len(c.Endpoints))
	list := make([]string, 0, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		ep = strings.TrimSpace(ep)
		if ep == "" || seen[ep] {
			continue
		}
		seen[ep] = true
		list = append(list, ep)
	}
	c.Endpoints = list
	return nil
}
