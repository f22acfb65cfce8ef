package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"celltrack-api/internal/cache"
	"celltrack-api/internal/config"
	"celltrack-api/internal/ingest"
	"celltrack-api/internal/logging"
	"celltrack-api/internal/opencellid"
	"celltrack-api/internal/positioning"
	"celltrack-api/internal/repository"
	"celltrack-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger := logging.Setup(config.LogLevel, config.LogFormat, "ingest")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	defer redisClient.Close()
	redisCache := cache.NewRedisCache(redisClient)

	resolver := service.NewTowerResolver(service.ResolverConfig{
		Cache:         redisCache,
		Store:         repo,
		Lookup:        opencellid.NewClient(config.OpenCellIDBaseURL, config.OpenCellIDAPIKey, config.OpenCellIDTimeout),
		Static:        service.NewStaticTable(nil),
		Logger:        logger.With().Str("module", "resolver").Logger(),
		CacheTTL:      config.TowerCacheTTL,
		LookupTimeout: config.OpenCellIDTimeout,
		Concurrency:   config.ResolverConcurrency,
	})
	positionService := service.NewPositionService(service.PositionServiceConfig{
		Resolver:  resolver,
		Estimator: positioning.NewEngine(),
		Store:     repo,
		Cache:     redisCache,
		Logger:    logger.With().Str("module", "positions").Logger(),
		CacheTTL:  config.PositionCacheTTL,
	})

	reader := ingest.NewKafkaReader(ingest.ReaderConfig{
		Brokers: config.KafkaBrokers,
		Topic:   config.KafkaTopic,
		GroupID: config.KafkaGroupID,
	}, logger)
	defer reader.Close()

	log.Info().
		Strs("brokers", config.KafkaBrokers).
		Str("topic", config.KafkaTopic).
		Str("group_id", config.KafkaGroupID).
		Msg("consuming position reports")

	consumer := ingest.NewConsumer(reader, positionService, config.KafkaWorkers, logger)
	if err := consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("consumer stopped with error")
	}
}
