// internal/config/config.go
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agoradao/agora-go/internal/ledger"
)

type Config struct {
	RPCList        []string `mapstructure:"rpc_list"`
	PackageID      string   `mapstructure:"package_id"`
	InstrumentPool string   `mapstructure:"instrument_pool"`
	SubmitTimeout  int      `mapstructure:"submit_timeout_ms"`
	Retries        int      `mapstructure:"retries"`
	DebugLogging   bool     `mapstructure:"debug_logging"`
	LogFile        string   `mapstructure:"log_file"`

	pkg ledger.ObjectID
}

const (
	DefaultSubmitTimeout = 15000
	DefaultRetries       = 3
	DefaultLogFile       = "agora.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"submit_timeout_ms": DefaultSubmitTimeout,
		"retries":           DefaultRetries,
		"log_file":          DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

// Package returns the parsed protocol package id. Valid only after
// LoadConfig succeeded.
func (c *Config) Package() ledger.ObjectID { return c.pkg }

// SubmitTimeoutDuration converts the millisecond setting.
func (c *Config) SubmitTimeoutDuration() time.Duration {
	return time.Duration(c.SubmitTimeout) * time.Millisecond
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURL(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if cfg.PackageID == "" {
		return errors.New("missing package_id in configuration")
	}
	pkg, err := ledger.ParseObjectID(cfg.PackageID)
	if err != nil {
		return errors.New("invalid package_id")
	}
	cfg.pkg = pkg
	if cfg.InstrumentPool != "" {
		if _, err := ledger.ParseObjectID(cfg.InstrumentPool); err != nil {
			return errors.New("invalid instrument_pool id")
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.SubmitTimeout <= 0 {
		return errors.New("invalid submit_timeout_ms")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("AGORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envPackage := v.GetString("PACKAGE_ID")
	if envPackage != "" {
		cfg.PackageID = envPackage
	}

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}
	return nil
}
