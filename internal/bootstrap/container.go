package bootstrap

import (
	"context"
	"log"

	"mondichat-be/internal/config"
	"mondichat-be/internal/controller"
	"mondichat-be/internal/handler"
	"mondichat-be/internal/pkg/logger"
	"mondichat-be/internal/pkg/serverutils"
	"mondichat-be/internal/repository/memory"
	"mondichat-be/internal/repository/redisstore"
	"mondichat-be/internal/repository/unitofwork"
	"mondichat-be/internal/service"
	"mondichat-be/internal/websocket"
	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/llm"
	"mondichat-be/pkg/llm/factory"
	"mondichat-be/pkg/query"
	"mondichat-be/pkg/reconciler"
	"mondichat-be/pkg/session"
	"mondichat-be/pkg/transcription"

	pktNats "mondichat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SnapshotController  controller.ISnapshotController
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventFeedHandler *handler.EventFeedHandler

	SysLogger logger.ILogger
	closers   []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	uploadLogger := logger.NewIsolatedLogger(cfg.App.UploadLogFilePath)
	c.SysLogger = sysLogger
	if cfg.Keys.JwtSecret == "" {
		sysLogger.Warn("AUTH", "JWT_SECRET is not set, every assistant and event feed request will be rejected", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Live event feed. With NATS the hub follows the stream so every
	// instance sees every upload; without it uploads publish to the hub.
	hub := websocket.NewHub(sysLogger)
	go hub.Run(ctx)
	c.EventFeedHandler = handler.NewEventFeedHandler(hub, cfg.Keys.JwtSecret, sysLogger)

	var eventPublisher service.EventPublisher = hub
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
			c.startFeedSubscriber(ctx, cfg.App.NatsURL, hub)
		}
	}

	// 4. Domain components
	thresholds := classifier.DefaultThresholdTable()
	if cfg.Query.ThresholdsFile != "" {
		loaded, err := classifier.LoadThresholdTable(cfg.Query.ThresholdsFile)
		if err != nil {
			log.Printf("[WARN] Failed to load thresholds from %s: %v. Using defaults", cfg.Query.ThresholdsFile, err)
		} else {
			thresholds = loaded
		}
	}

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
		APIKey:   llmKey(cfg),
	})
	if err != nil {
		log.Printf("[WARN] LLM Provider %q unavailable: %v. Free-form questions will get the apology reply", cfg.Ai.LLMProvider, err)
		llmProvider = llm.Unconfigured{Name: cfg.Ai.LLMProvider}
	} else {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	var transcriptionEngine transcription.Engine
	if engine, err := transcription.NewGeminiEngine(ctx, cfg.Keys.GoogleGemini, cfg.Ai.TranscriptionModel); err != nil {
		log.Printf("[WARN] Transcription disabled: %v", err)
	} else {
		transcriptionEngine = engine
	}
	transcriber := transcription.NewService(transcriptionEngine, func(audioRef string, err error) {
		sysLogger.Warn("TRANSCRIPTION", "Transcription failed", map[string]interface{}{
			"audio_ref": audioRef,
			"error":     err.Error(),
		})
	})

	sessions := session.NewManager(newSessionStore(ctx, cfg), cfg.Query.HistoryCap)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.ReportTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Keys.ReportTopic, uowFactory)

	engine := query.NewEngine(
		service.NewRouteStore(uowFactory),
		sessions,
		classifier.New(thresholds),
		llm.NewChatCompleter(llmProvider),
		service.NewReportSink(publisherService),
		sysLogger,
		query.Config{
			PageSize:    cfg.Query.PageSize,
			RecordLimit: cfg.Query.RecordLimit,
			Location:    cfg.Query.Location(),
		},
	)

	snapshotService := service.NewSnapshotService(uowFactory, reconciler.NewReconciler(), eventPublisher, uploadLogger)
	assistantService := service.NewAssistantService(engine, sessions, transcriber, sysLogger)

	// 6. Controllers
	c.SnapshotController = controller.NewSnapshotController(snapshotService)
	c.AssistantController = controller.NewAssistantController(
		assistantService,
		serverutils.NewJwtMiddleware(cfg.Keys.JwtSecret),
		cfg.Keys.WebhookSecret,
	)

	return c
}

// Close releases the event bus and broker connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.SysLogger.Sync()
}

func (c *Container) startFeedSubscriber(ctx context.Context, url string, hub *websocket.Hub) {
	natsSub, err := pktNats.NewSubscriber(url)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		return
	}
	c.closers = append(c.closers, natsSub.Close)

	go func() {
		if err := natsSub.Subscribe(ctx, "", "", hub.Publish); err != nil {
			log.Printf("[WARN] Event feed subscription stopped: %v", err)
		}
	}()
}

func llmKey(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "huggingface" {
		return cfg.Keys.HuggingFace
	}
	return cfg.Keys.GoogleGemini
}

func newSessionStore(ctx context.Context, cfg *config.Config) session.Store {
	if cfg.Session.Store != "redis" {
		return memory.NewSessionRepository(cfg.Session.TTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory sessions", err)
		_ = rdb.Close()
		return memory.NewSessionRepository(cfg.Session.TTL)
	}
	return redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
}
