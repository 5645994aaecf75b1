package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the process needs at startup. Values come from
// config.yaml (optional) overridden by THELINE_* environment variables.
type Config struct {
	Server struct {
		Port string
		Mode string // debug | release
	}
	Database struct {
		DSN string // postgres://... or sqlite://path
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Media struct {
		Driver   string // disk | s3
		BasePath string // disk root
		BaseURL  string
		Bucket   string // s3 bucket
		Region   string
	}
	Notifications struct {
		RetentionDays int
		QueueSize     int
	}
	Trending struct {
		TTL time.Duration
	}
	CORS struct {
		Origins []string
	}
	Sentry struct {
		DSN string
	}
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("THELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.dsn", "sqlite://theline.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 24*time.Hour)
	v.SetDefault("media.driver", "disk")
	v.SetDefault("media.basepath", "./uploads")
	v.SetDefault("media.baseurl", "/uploads")
	v.SetDefault("media.region", "eu-central-1")
	v.SetDefault("notifications.retentiondays", 30)
	v.SetDefault("notifications.queuesize", 10000)
	v.SetDefault("trending.ttl", 5*time.Minute)
	v.SetDefault("cors.origins", []string{"*"})

	if err := v.ReadInConfig(); err != nil {
		// missing file is fine, env-only deployments are supported
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
