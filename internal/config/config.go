package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of configs/config.yml.
type Config struct {
	Port         string
	WriteTimeout time.Duration
	LogLevel     string
	LogFormat    string

	DBPath string

	SigningKey string
	TokenTTL   time.Duration

	ADBPath    string
	ADBTimeout time.Duration

	MaxAttempts int
	RetryDelay  time.Duration

	SimTick        time.Duration
	SimSettleTicks int

	PollInterval time.Duration
}

const envPrefix = "DOZE"

// Load reads config.yml from the given directories (first match wins) and
// applies DOZE_* environment overrides. A missing file is not an error.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("http.write_timeout", 2*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("adb.path", "adb")
	v.SetDefault("adb.command_timeout", 30*time.Second)
	v.SetDefault("doze.max_attempts", 3)
	v.SetDefault("doze.retry_delay", time.Second)
	v.SetDefault("simulator.tick", time.Second)
	v.SetDefault("simulator.settle_ticks", 1)
	v.SetDefault("poller.interval", time.Duration(0))
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:           v.GetString("port"),
		WriteTimeout:   v.GetDuration("http.write_timeout"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		DBPath:         v.GetString("db.path"),
		SigningKey:     v.GetString("auth.signing_key"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		ADBPath:        v.GetString("adb.path"),
		ADBTimeout:     v.GetDuration("adb.command_timeout"),
		MaxAttempts:    v.GetInt("doze.max_attempts"),
		RetryDelay:     v.GetDuration("doze.retry_delay"),
		SimTick:        v.GetDuration("simulator.tick"),
		SimSettleTicks: v.GetInt("simulator.settle_ticks"),
		PollInterval:   v.GetDuration("poller.interval"),
	}
}
