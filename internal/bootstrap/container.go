package bootstrap

import (
	"discharge-care-be/internal/config"
	"discharge-care-be/internal/controller"
	"discharge-care-be/internal/metrics"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/pkg/serverutils"
	"discharge-care-be/internal/repository/memory"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/internal/service"
	"discharge-care-be/internal/websocket"
	"discharge-care-be/pkg/ai/agent"
	"discharge-care-be/pkg/ai/orchestrator"
	"discharge-care-be/pkg/ai/pipeline"
	"discharge-care-be/pkg/interaction"
	"discharge-care-be/pkg/rag/response"
	"discharge-care-be/pkg/rag/retriever"
	"discharge-care-be/pkg/websearch"

	pktNats "discharge-care-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	PatientController controller.IPatientController
	AdminController   controller.IAdminController
	SystemController  controller.ISystemController
	ChatSocketHandler *websocket.ChatHandler
	AdminMiddleware   fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	IndexingService service.IIndexingService

	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Metrics
	Logger       *logger.ZapLogger

	closers []func()
}

// NewContainer builds every component from cfg. Prometheus collectors are
// registered on reg; the server passes prometheus.DefaultRegisterer.
func NewContainer(db *gorm.DB, cfg *config.Config, reg prometheus.Registerer) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	journalLogger := logger.NewIsolatedLogger(cfg.App.InteractionLogPath)
	appMetrics := metrics.New(reg)

	c.Logger = sysLogger
	c.Metrics = appMetrics

	// 2. Event Bus (index jobs)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, interaction events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			natsPub = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	var searchCache websearch.Cache
	if rdb := NewRedisClient(cfg.App.RedisURL, sysLogger); rdb != nil {
		searchCache = websearch.NewRedisCache(rdb, cfg.Search.CacheTTL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Providers
	llmProvider := newLLMProvider(cfg, sysLogger)
	chunkIndex := NewChunkIndex(cfg, uowFactory, NewEmbeddingProvider(cfg, sysLogger), sysLogger)
	webSearch := NewWebSearch(cfg, searchCache, sysLogger)

	// 5. Services
	patientService := service.NewPatientService(uowFactory, sysLogger)
	interactionService := service.NewInteractionService(uowFactory, sysLogger)

	sinks := interaction.MultiSink{
		interaction.NewLogSink(journalLogger),
		interactionService,
	}
	if natsPub != nil {
		sinks = append(sinks, interaction.NewEventSink(natsPub, sysLogger))
	}

	clinicalPipeline := pipeline.NewClinicalPipeline(
		retriever.New(chunkIndex, cfg.Rag.TopK, sysLogger),
		webSearch,
		response.NewComposer(),
		sinks,
		appMetrics,
		sysLogger,
	)

	receptionist := agent.NewReceptionist(llmProvider, patientService, sinks, sysLogger)
	clinical := agent.NewClinical(llmProvider, clinicalPipeline, sysLogger)

	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)
	c.Orchestrator = orchestrator.New(receptionist, clinical, sessionRepo, sinks, sysLogger, orchestrator.Options{
		AgentTimeout: cfg.Ai.AgentTimeout,
		Observer:     appMetrics,
	})

	publisherService := service.NewPublisherService(cfg.Keys.IndexTopic, pubSub)
	indexingService := service.NewIndexingService(chunkIndex, publisherService, appMetrics, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.IndexTopic, indexingService, sysLogger)

	chatService := service.NewChatService(c.Orchestrator)
	systemService := service.NewSystemService(patientService, indexingService, sessionRepo, service.SystemInfo{
		IndexBackend:    cfg.Rag.IndexBackend,
		LLMProvider:     cfg.Ai.LLMProvider,
		SearchProviders: webSearch.Providers(),
	}, sysLogger)

	// 6. Controllers
	c.ChatController = controller.NewChatController(chatService)
	c.PatientController = controller.NewPatientController(patientService)
	c.AdminController = controller.NewAdminController(indexingService, interactionService, sysLogger, cfg.Rag.KnowledgeDir)
	c.SystemController = controller.NewSystemController(systemService)
	c.ChatSocketHandler = websocket.NewChatHandler(chatService, appMetrics.WebSocketClients, sysLogger)
	c.AdminMiddleware = serverutils.NewJwtMiddleware(cfg.App.JwtSecret)

	c.ConsumerService = consumerService
	c.IndexingService = indexingService

	return c
}

// Close releases broker and cache connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
