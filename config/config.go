// Package config loads the bridge daemon configuration from defaults, an optional config file and BRIDGE_
// prefixed environment variables, in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"pkg.sigmaverse.dev/bridge/types"
)

const EnvPrefix = "BRIDGE"

type Config struct {
	// NodeURL is the HTTP endpoint of the chain gateway.
	NodeURL string `mapstructure:"node_url"`
	// EventsURL is the websocket endpoint streaming user messages. Empty disables event subscriptions.
	EventsURL string `mapstructure:"events_url"`
	// ProgramID is the hex actor id of the Sigmaverse program.
	ProgramID string `mapstructure:"program_id"`

	Port string `mapstructure:"port"`
	CORS bool   `mapstructure:"cors"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	Decimals         int           `mapstructure:"decimals"`
	BalanceInterval  time.Duration `mapstructure:"balance_interval"`
	PriceTTL         time.Duration `mapstructure:"price_ttl"`
	GasMarginPercent uint64        `mapstructure:"gas_margin_percent"`
	// EventRefresh refreshes the collection on Minted and Transfer events touching the active identity.
	EventRefresh bool `mapstructure:"event_refresh"`

	SignerSource string   `mapstructure:"signer_source"`
	SignerKeys   []string `mapstructure:"signer_keys"`

	// RedisAddress enables the redis nonce manager. Nonces are kept in memory when empty.
	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`

	StatsdAddress string   `mapstructure:"statsd_address"`
	StatsdTags    []string `mapstructure:"statsd_tags"`

	TraceEnabled    bool    `mapstructure:"trace_enabled"`
	TraceEndpoint   string  `mapstructure:"trace_endpoint"`
	TraceSampleRate float64 `mapstructure:"trace_sample_rate"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node_url", "http://localhost:9090")
	v.SetDefault("events_url", "")
	v.SetDefault("program_id", "")
	v.SetDefault("port", "4080")
	v.SetDefault("cors", false)
	v.SetDefault("log_level", zerolog.InfoLevel.String())
	v.SetDefault("log_pretty", false)
	v.SetDefault("decimals", types.DefaultDecimals)
	v.SetDefault("balance_interval", 5*time.Second)
	v.SetDefault("price_ttl", time.Minute)
	v.SetDefault("gas_margin_percent", 10)
	v.SetDefault("event_refresh", false)
	v.SetDefault("signer_source", "local")
	v.SetDefault("signer_keys", []string{})
	v.SetDefault("redis_address", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("statsd_address", "")
	v.SetDefault("statsd_tags", []string{})
	v.SetDefault("trace_enabled", false)
	v.SetDefault("trace_endpoint", "localhost:4317")
	v.SetDefault("trace_sample_rate", 0.6)
}

// New returns a viper instance reading BRIDGE_ environment variables on top of the defaults.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configFile, when set, into v and returns the validated configuration.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, eris.Wrapf(err, "couldn't load config %q", configFile)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "couldn't read config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, eris.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.NodeURL == "" {
		return eris.New("node_url is required")
	}
	if cfg.ProgramID == "" {
		return eris.New("program_id is required")
	}
	if _, err := types.ParseActorID(cfg.ProgramID); err != nil {
		return eris.Wrap(err, "program_id")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return eris.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", cfg.LogLevel)
	}
	if cfg.Decimals < 0 || cfg.Decimals > 18 {
		return eris.Errorf("decimals must be between 0 and 18, got %d", cfg.Decimals)
	}
	if cfg.BalanceInterval <= 0 {
		return eris.New("balance_interval must be positive")
	}
	if cfg.TraceEnabled {
		if cfg.TraceEndpoint == "" {
			return eris.New("trace_endpoint cannot be empty when tracing is enabled")
		}
		if cfg.TraceSampleRate < 0.0 || cfg.TraceSampleRate > 1.0 {
			return eris.New("trace sample rate must be between 0.0 and 1.0")
		}
	}
	return nil
}

// ProgramActor is the parsed ProgramID. Call it on a validated Config.
func (cfg *Config) ProgramActor() types.ActorID {
	id, _ := types.ParseActorID(cfg.ProgramID)
	return id
}
