package main

import (
	snitchconfig "github.com/zee-1/TheSnitchBot-sub001/internal/config"
	"github.com/zee-1/TheSnitchBot-sub001/internal/handlers"
	"github.com/zee-1/TheSnitchBot-sub001/internal/leak"
	"github.com/zee-1/TheSnitchBot-sub001/internal/source"
	"github.com/zee-1/TheSnitchBot-sub001/internal/usage"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/config"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/database"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/kafka"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/llm"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/middleware"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/monitoring"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/server"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("snitch")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Snitch (community leak generator)")

	cfg := snitchconfig.LoadConfig()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("snitch", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("snitch", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
	}))

	var producer *kafka.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaClientID, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to create Kafka producer - usage events disabled")
		} else {
			producer = p
			defer producer.Close()
			healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))
		}
	} else {
		logger.Warn("KAFKA_BROKERS not set - usage events disabled")
	}
	usagePublisher := usage.NewPublisher(producer, cfg.UsageKafkaTopic, logger)

	llmProvider, err := llm.NewProvider(llm.Config{
		Provider:  cfg.LLMProvider,
		Model:     cfg.LLMModel,
		APIKey:    cfg.LLMAPIKey,
		APIURL:    cfg.LLMAPIURL,
		MaxTokens: cfg.LLMMaxTokens,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize LLM provider - running on deterministic fallbacks")
		llmProvider = nil
	}

	messageStore := source.NewMessageStore(db, cfg.MessageRetention)
	selector := leak.NewSelector(leak.SelectorConfig{
		MaxCandidates: cfg.MaxCandidates,
		FallbackLimit: cfg.FallbackLimit,
		Logger:        logger,
	})
	orchestrator := leak.NewOrchestrator(leak.OrchestratorConfig{
		Selector: selector,
		Analyzer: leak.NewAnalyzer(leak.AnalyzerConfig{Provider: llmProvider, Logger: logger}),
		Planner:  leak.NewPlanner(leak.PlannerConfig{Provider: llmProvider, Logger: logger}),
		Writer:   leak.NewWriter(leak.WriterConfig{Provider: llmProvider, Logger: logger}),
		Provider: llmProvider,
		Logger:   logger,
	})

	leakHandler := &handlers.LeakHandler{
		Orchestrator:   orchestrator,
		Messages:       messageStore,
		Usage:          usagePublisher,
		Logger:         logger,
		DefaultPersona: leak.ParsePersona(cfg.DefaultPersona),
		WindowSize:     cfg.WindowSize,
	}

	// Setup router with unified monitoring (health/metrics only)
	router := server.SetupServiceRouter(logger, "snitch", healthChecker, metricsCollector)
	if cfg.ServiceAuthToken != "" {
		api := router.Group("")
		api.Use(middleware.ServiceAuthMiddleware(cfg.ServiceAuthToken))
		leakHandler.Register(api)
	} else {
		logger.Warn("SNITCH_SERVICE_TOKEN not set - API is unauthenticated")
		leakHandler.Register(router)
	}

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("snitch", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
