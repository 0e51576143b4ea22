package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/api"
	"github.com/carson-networks/wallet-server/internal/config"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/metrics"
	"github.com/carson-networks/wallet-server/internal/operator"
	"github.com/carson-networks/wallet-server/internal/service"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/statistics"
	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/memory"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("wallet-server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("openStorage")
		return
	}
	defer store.Close()

	tokens, err := session.NewManager(envConfig.Session())
	if err != nil {
		logger.WithError(err).Fatal("session.NewManager")
		return
	}

	var cache *statistics.Cache
	if envConfig.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: envConfig.RedisAddress})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis.Ping: statistics will be computed uncached until redis is reachable")
		}
		cache = statistics.NewCache(client, envConfig.StatisticsCacheTTL)
	}

	m := metrics.NewMetrics()
	op := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers, m, logger)
	op.Start()
	defer op.Stop()

	httpRest := api.Rest{
		Logger:        logger,
		Port:          envConfig.Port,
		Service:       service.NewService(store, op, tokens, cache, envConfig.BcryptCost),
		Storage:       store,
		Metrics:       m,
		AuthRateLimit: envConfig.AuthRateLimit,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("HttpServer.Serve")
	}
	logger.Info("wallet-server stopped")
}

func openStorage(ctx context.Context, envConfig *config.Config, logger *logrus.Logger) (storage.Backend, error) {
	if envConfig.StorageBackend == config.BackendMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}

	dbStorage, err := storage.NewStorage(envConfig.PostgresURL())
	if err != nil {
		return nil, err
	}
	if err := dbStorage.Ping(ctx); err != nil {
		_ = dbStorage.Close()
		return nil, err
	}
	result, err := storage.Migrate(dbStorage.DB)
	if err != nil {
		_ = dbStorage.Close()
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
	}).Info("Migration status")
	return dbStorage, nil
}
