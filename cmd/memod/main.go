package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/revenantonthemission/sogangcomputerclub.org/internal/cache"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/config"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/notify"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/server"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/service"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/store"
)

func init() {
	goli.InitLogrus(logrus.InfoLevel)
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("error loading godotenv")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "loading config"))
	}

	st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "opening store"))
	}

	var memoCache service.Cache = cache.Nop{}
	var redisCache *cache.Redis
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedis(cfg.RedisAddr)
		if err != nil {
			logrus.Warn(errors.Wrap(err, "connecting to redis, continuing without cache"))
			redisCache = nil
		} else {
			logrus.Infof("redis connected at %s", cfg.RedisAddr)
			memoCache = redisCache
		}
	}

	var notifier service.Notifier = notify.Nop{}
	var kafkaNotifier *notify.Kafka
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier = notify.NewKafka(cfg.KafkaBrokers)
		notifier = kafkaNotifier
		logrus.Infof("kafka producer configured for %v", cfg.KafkaBrokers)
	}

	svc := service.New(st, memoCache, notifier)

	e := echo.New()

	e.Use(middleware.Recover())

	e.Use(middleware.CORS())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	server.Register(e, svc)

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(errors.Wrap(err, "starting server"))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logrus.Error(errors.Wrap(err, "shutting down server"))
	}

	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			logrus.Error(errors.Wrap(err, "closing kafka producer"))
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logrus.Error(errors.Wrap(err, "closing redis client"))
		}
	}
	if err := st.Close(); err != nil {
		logrus.Error(errors.Wrap(err, "closing store"))
	}
}
