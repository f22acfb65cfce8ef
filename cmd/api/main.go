package main

import (
	"context"

	_ "celltrack-api/docs"
	"celltrack-api/internal/cache"
	"celltrack-api/internal/config"
	"celltrack-api/internal/handler"
	"celltrack-api/internal/logging"
	"celltrack-api/internal/metrics"
	"celltrack-api/internal/opencellid"
	"celltrack-api/internal/positioning"
	"celltrack-api/internal/repository"
	"celltrack-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger := logging.Setup(config.LogLevel, config.LogFormat, "api")

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	defer redisClient.Close()
	redisCache := cache.NewRedisCache(redisClient)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot register metrics")
	}

	lookup := opencellid.NewClient(config.OpenCellIDBaseURL, config.OpenCellIDAPIKey, config.OpenCellIDTimeout)
	if !lookup.Enabled() {
		log.Warn().Msg("OPENCELLID_API_KEY not set, external tower lookup disabled")
	}

	// Initialize layers
	resolver := service.NewTowerResolver(service.ResolverConfig{
		Cache:         redisCache,
		Store:         repo,
		Lookup:        lookup,
		Static:        service.NewStaticTable(nil),
		Metrics:       collector,
		Logger:        logger.With().Str("module", "resolver").Logger(),
		CacheTTL:      config.TowerCacheTTL,
		LookupTimeout: config.OpenCellIDTimeout,
		Concurrency:   config.ResolverConcurrency,
	})
	log.Info().Str("static_table", service.StaticTableVersion).Msg("tower resolver ready")

	positionService := service.NewPositionService(service.PositionServiceConfig{
		Resolver:  resolver,
		Estimator: positioning.NewEngine(),
		Store:     repo,
		Cache:     redisCache,
		Metrics:   collector,
		Logger:    logger.With().Str("module", "positions").Logger(),
		CacheTTL:  config.PositionCacheTTL,
	})
	towerService := service.NewTowerService(repo, resolver)
	vehicleService := service.NewVehicleService(repo, logger.With().Str("module", "vehicles").Logger())

	positionHandler := handler.NewPositionHandler(positionService)
	towerHandler := handler.NewTowerHandler(towerService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"store": repo,
		"cache": redisCache,
	})

	gin.SetMode(config.GinMode)
	r := gin.Default()

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collector.Gatherer(), promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/positions", positionHandler.CreatePosition)
		v1.POST("/positions/estimate", positionHandler.EstimatePosition)
		v1.GET("/positions/current/:vehicle_id", positionHandler.CurrentPosition)
		v1.GET("/positions/vehicle/:vehicle_id", positionHandler.VehiclePositions)

		v1.GET("/towers", towerHandler.ListTowers)
		v1.GET("/towers/nearby", towerHandler.NearbyTowers)
		v1.POST("/towers/resolve", towerHandler.ResolveTowers)

		v1.GET("/vehicles", vehicleHandler.ListVehicles)
		v1.GET("/vehicles/:device_id", vehicleHandler.GetVehicle)
		v1.POST("/vehicles", vehicleHandler.RegisterVehicle)
	}

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
