package config

import (
	errs "errors"
	"fmt"
	"os"
	"strings"

	"github.com/oliverisaac/goli"
)

type Config struct {
	ListenAddr   string
	DBDriver     string
	DBDSN        string
	RedisAddr    string
	KafkaBrokers []string
}

func FromEnv() (Config, error) {
	ret := Config{}
	var retErr error

	ret.ListenAddr = goli.DefaultEnv("MEMO_LISTEN_ADDR", ":8080")

	ret.DBDriver = goli.DefaultEnv("MEMO_DB_DRIVER", "sqlite")
	switch ret.DBDriver {
	case "sqlite", "mysql":
	default:
		retErr = errs.Join(retErr, fmt.Errorf("MEMO_DB_DRIVER must be sqlite or mysql, got %q", ret.DBDriver))
	}

	ret.DBDSN = goli.DefaultEnv("MEMO_DB_DSN", "memos.db")

	// Cache and notifier are optional: leaving these unset runs the
	// service against the store alone.
	ret.RedisAddr = os.Getenv("REDIS_ADDR")

	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			ret.KafkaBrokers = append(ret.KafkaBrokers, b)
		}
	}

	return ret, retErr
}
