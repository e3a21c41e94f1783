package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load() App {
	_ = godotenv.Load()

	cfg := App{
		Port:               getenv("APP_PORT", "8080"),
		DatabaseURL:        must("DATABASE_URL"),
		JWTSecret:          getenv("JWT_SECRET", "local_dev_secret"),
		JWTTTLHours:        mustInt(getenv("JWT_TTL_HOURS", "72")),
		Env:                getenv("APP_ENV", "dev"),
		PlatformFeePercent: mustDecimal(getenv("PLATFORM_FEE_PERCENT", "0.15")),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

func mustInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("bad int env", "value", v, "err", err)
		panic("bad int env " + v)
	}
	return n
}

func mustDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		slog.Error("bad decimal env", "value", v, "err", err)
		panic("bad decimal env " + v)
	}
	return d
}
