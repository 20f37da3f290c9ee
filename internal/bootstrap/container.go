package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-research-hub-be/internal/config"
	"ai-research-hub-be/internal/controller"
	"ai-research-hub-be/internal/pkg/logger"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/internal/repository/implementation"
	"ai-research-hub-be/internal/service"
	"ai-research-hub-be/internal/sources"
	"ai-research-hub-be/pkg/blogfetch"
	"ai-research-hub-be/pkg/embedding"
	"ai-research-hub-be/pkg/llm/factory"
	"ai-research-hub-be/pkg/rag"
	"ai-research-hub-be/pkg/rag/agent"
	"ai-research-hub-be/pkg/rag/contextbuilder"
	"ai-research-hub-be/pkg/rag/rerank"
	"ai-research-hub-be/pkg/rag/response"
	"ai-research-hub-be/pkg/rag/retrieval"
	"ai-research-hub-be/pkg/rag/rewrite"

	pkgNats "ai-research-hub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const topicQueryLogs = "query.logged"

type Container struct {
	// Controllers
	AskController controller.IAskController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 1. Repositories
	paperChunkRepo := implementation.NewPaperChunkRepository(db)
	chunkEmbeddingRepo := implementation.NewChunkEmbeddingRepository(db)
	queryLogRepo := implementation.NewQueryLogRepository(db)
	synonymRepo := implementation.NewSynonymRepository(db)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Pipeline Stages
	rewriter := rewrite.NewRewriter(llmProvider, cfg.Rag.LLMTimeout, ragLogger)
	if synonyms := loadSynonyms(synonymRepo); len(synonyms) > 0 {
		rewriter.WithSynonyms(synonyms)
		log.Printf("[INFO] Loaded %d synonyms from database", len(synonyms))
	}

	vectorSource := sources.NewVectorSource(embeddingProvider, chunkEmbeddingRepo, sysLogger)
	textSource := sources.NewTextSource(paperChunkRepo, sysLogger)
	retriever := retrieval.NewHybridRetriever(vectorSource, textSource, retrieval.Config{
		TopK:    cfg.Rag.TopK,
		KConst:  cfg.Rag.RRFKConst,
		Timeout: cfg.Rag.RetrievalTimeout,
	}, ragLogger)

	reranker := rerank.NewReranker(llmProvider, cfg.Rag.RerankWindow, cfg.Rag.LLMTimeout, ragLogger)
	fetcher := blogfetch.NewFetcher(cfg.Rag.BlogSources, ragLogger)
	builder := contextbuilder.NewBuilder(ragLogger)
	generator := response.NewGenerator(llmProvider, cfg.Rag.LLMTimeout, ragLogger)

	pipeline := rag.NewPipeline(
		rewriter,
		retriever,
		reranker,
		fetcher,
		builder,
		generator,
		agent.Config{
			TopK:                cfg.Rag.TopK,
			ConfidenceThreshold: cfg.Rag.ConfidenceThreshold,
			LiveFetchTimeout:    cfg.Rag.LiveFetchTimeout,
			LiveFetchLimit:      cfg.Rag.LiveFetchLimit,
			LiveSources:         fetcher.SourceNames(),
			BudgetTokens:        cfg.Rag.ContextBudgetTokens,
		},
		ragLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(topicQueryLogs, pubSub)
	consumerService := service.NewConsumerService(pubSub, topicQueryLogs, queryLogRepo)

	askService := service.NewAskService(
		pipeline,
		rdb,
		cfg,
		publisherService,
		natsPub,
		queryLogRepo,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		AskController:   controller.NewAskController(askService),
		ConsumerService: consumerService,
	}
}

// loadSynonyms merges the database synonym table over the built-in
// defaults; startup proceeds without it when the table is unreachable.
func loadSynonyms(repo contract.SynonymRepository) map[string]string {
	rows, err := repo.FindAll(context.Background())
	if err != nil {
		log.Printf("[WARN] Failed to load synonyms, using defaults: %v", err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	merged := make(map[string]string, len(rewrite.DefaultSynonyms)+len(rows))
	for term, expansion := range rewrite.DefaultSynonyms {
		merged[term] = expansion
	}
	for _, row := range rows {
		merged[row.Term] = row.Expansion
	}
	return merged
}
