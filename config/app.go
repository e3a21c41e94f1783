package config

import "github.com/shopspring/decimal"

type App struct {
	Port               string `env:"APP_PORT" default:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	JWTSecret          string `env:"JWT_SECRET,required"`
	JWTTTLHours        int    `env:"JWT_TTL_HOURS" default:"72"`
	Env                string `env:"APP_ENV" default:"dev"`
	PlatformFeePercent decimal.Decimal
}
