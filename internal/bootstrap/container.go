package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-search-be/internal/config"
	"ai-search-be/internal/controller"
	"ai-search-be/internal/handler"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/internal/repository/implementation"
	"ai-search-be/internal/repository/unitofwork"
	"ai-search-be/internal/service"
	"ai-search-be/pkg/cache"
	"ai-search-be/pkg/chunking"
	"ai-search-be/pkg/embedding"
	"ai-search-be/pkg/embedding/jina"
	"ai-search-be/pkg/embedding/openai"
	"ai-search-be/pkg/indexevents"
	"ai-search-be/pkg/rag/search"
	"ai-search-be/pkg/vectorindex"

	pktNats "ai-search-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController        controller.ISearchController
	AISearchAdminController controller.IAISearchAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	indexLogger := logger.NewIsolatedLogger(cfg.App.IndexLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding + vector index
	embeddingClient := newEmbeddingClient(cfg)
	vectorClient := newVectorIndexClient(cfg, db)

	orchestrator := search.NewOrchestrator(
		embeddingClient,
		vectorClient,
		implementation.NewContentRepository(db),
		search.Config{
			Chunking: chunking.Options{
				ChunkSize: cfg.Index.ChunkSize,
				Overlap:   cfg.Index.ChunkOverlap,
			},
		},
		indexLogger,
	)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	resultCache := newResultCache(cfg)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Index.TopicName, pubSub)
	settingsService := service.NewSettingsService(uowFactory, publisherService, sysLogger)
	indexService := service.NewIndexService(
		uowFactory,
		orchestrator,
		publisherService,
		indexevents.NewNatsPublisher(natsPub, sysLogger),
		indexLogger,
	)
	searchService := service.NewSearchService(
		uowFactory,
		settingsService,
		orchestrator,
		resultCache,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Index.TopicName,
		indexService,
		indexLogger,
	)

	// 6. Event handlers
	if natsSub != nil {
		contentHandler := handler.NewContentEventHandler(publisherService, sysLogger)
		if err := contentHandler.Start(natsSub); err != nil {
			log.Printf("[WARN] Failed to start content event handler: %v", err)
		}
	}

	c := &Container{
		SearchController:        controller.NewSearchController(searchService),
		AISearchAdminController: controller.NewAISearchAdminController(settingsService, indexService, searchService, cfg.App.JWTSecret),
		ConsumerService:         consumerService,
		Logger:                  sysLogger,
	}
	if natsSub != nil {
		c.closers = append(c.closers, natsSub.Close)
	}
	if natsPub != nil {
		c.closers = append(c.closers, natsPub.Close)
	}
	c.closers = append(c.closers, func() {
		_ = pubSub.Close()
		_ = indexLogger.Sync()
		_ = sysLogger.Sync()
	})
	return c
}

// Close releases broker connections and flushes the loggers.
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
}

func newEmbeddingClient(cfg *config.Config) *embedding.Client {
	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "none", "":
		log.Printf("[INFO] Embedding disabled, search runs keyword only")
		return nil
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		provider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	case "openai":
		p, err := openai.NewProvider(cfg.Ai.OpenAIBaseURL, cfg.Keys.OpenAI, cfg.Ai.OpenAIModel)
		if err != nil {
			log.Printf("[WARN] Failed to initialize OpenAI embeddings: %v", err)
			return nil
		}
		provider = p
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.OpenAIModel)
	default:
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	if cfg.Ai.EmbeddingCacheSize > 0 {
		provider = embedding.NewCachedProvider(provider, cfg.Ai.EmbeddingCacheSize, embedding.DefaultCacheTTL)
	}
	return embedding.NewClient(provider,
		embedding.WithRateLimit(cfg.Ai.EmbeddingRateLimit, embedding.DefaultBatchSize),
	)
}

func newVectorIndexClient(cfg *config.Config, db *gorm.DB) *vectorindex.Client {
	switch cfg.Index.VectorProvider {
	case "none", "":
		log.Printf("[INFO] Vector index disabled")
		return nil
	case "memory":
		log.Printf("[INFO] Using in-memory vector index")
		return vectorindex.NewClient(vectorindex.NewMemoryProvider(), vectorindex.NewMemoryRefStore())
	default:
		log.Printf("[INFO] Using pgvector index")
		return vectorindex.NewClient(
			implementation.NewContentChunkRepository(db),
			implementation.NewContentChunkRefRepository(db),
		)
	}
}

func newResultCache(cfg *config.Config) cache.ResultCache {
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory result cache", err)
		_ = rdb.Close()
		return cache.NewMemoryCache(10 * time.Minute)
	}
	return cache.NewRedisCache(rdb)
}
