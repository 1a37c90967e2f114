package config

import (
	"github.com/caarlos0/env/v6"
	"log/slog"
	"reflect"
	"time"
)

type Config struct {
	Network         string        `env:"NETWORK" envDefault:"mainnet"`
	APIEndpoint     string        `env:"API_ENDPOINT"`
	NodeEndpoint    string        `env:"NODE_ENDPOINT"`
	ChainID         uint32        `env:"CHAIN_ID"`
	NetworksFile    string        `env:"NETWORKS_FILE"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	PostgresURI     string        `env:"POSTGRES_URI,required"`
	WebhookEndpoint string        `env:"WEBHOOK_ENDPOINT"`
	TrackInterval   time.Duration `env:"TRACK_INTERVAL" envDefault:"5s"`
	ExpireAfter     time.Duration `env:"EXPIRE_AFTER" envDefault:"10m"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`
}

func Load() Config {
	var (
		c  Config
		ll slog.Level
	)
	if err := env.ParseWithFuncs(&c, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(ll): func(v string) (interface{}, error) {
			var level slog.Level
			err := level.UnmarshalText([]byte(v))
			return level, err
		},
	}); err != nil {
		panic("parse config error: " + err.Error())
	}
	return c
}
