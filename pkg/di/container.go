package di

import (
	"context"
	"fmt"

	"shipped-video-hub/backend/internal/ai"
	"shipped-video-hub/backend/internal/repository"
	"shipped-video-hub/backend/internal/service"
	"shipped-video-hub/backend/internal/youtube"
	"shipped-video-hub/backend/pkg/cache"
	"shipped-video-hub/backend/pkg/config"
	"shipped-video-hub/backend/pkg/health"
	"shipped-video-hub/backend/pkg/jwt"
	"shipped-video-hub/backend/pkg/logger"
	"shipped-video-hub/backend/pkg/observability"
	"shipped-video-hub/backend/pkg/secrets"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB             *gorm.DB
	Config         *config.Config
	Logger         *logger.Logger
	JWTService     *jwt.Service
	Secrets        *secrets.Manager
	CacheStore     cache.Store
	Health         *health.Checker
	ChatMetrics    *observability.ChatMetrics
	UserService    *service.UserService
	EventService   *service.EventService
	UsageService   *service.UsageService
	ChatService    *service.ChatService
	SummaryService *service.SummaryService
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	secretsManager, err := secrets.NewManager(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}

	// Redis when configured, in-memory otherwise
	var store cache.Store
	var redisStore *cache.Redis
	if cfg.Cache.Enabled {
		if cfg.Redis.Addr != "" {
			redisStore = cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			store = redisStore
		} else {
			store = cache.NewMemory(cfg.Cache.MaxSize, cfg.Cache.PurgeWindow)
		}
	}

	chatMetrics, err := observability.NewChatMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to register chat metrics: %w", err)
	}

	eventRepo := repository.NewGormEventRepository(db)
	usageRepo := repository.NewGormUsageRepository(db)

	// Operator provider keys resolve through the secrets manager so they
	// can live in Vault, with plain env vars as the fallback
	keySource := ai.KeySourceFunc(func(ctx context.Context) (ai.Credentials, error) {
		var creds ai.Credentials
		creds.OpenAI, _ = secretsManager.GetSecret(ctx, "OPENAI_API_KEY")
		creds.Anthropic, _ = secretsManager.GetSecret(ctx, "ANTHROPIC_API_KEY")
		creds.Gemini, _ = secretsManager.GetSecret(ctx, "GEMINI_API_KEY")
		return creds, nil
	})

	openaiAdapter := ai.NewOpenAI(cfg.Chat.ProviderTimeout)
	selector := ai.NewSelector([]ai.Provider{
		openaiAdapter,
		ai.NewAnthropic(cfg.Chat.ProviderTimeout),
		ai.NewGemini(cfg.Chat.ProviderTimeout),
	}, keySource, log)

	userService := service.NewUserService(db, jwtService)
	eventService := service.NewEventService(eventRepo, store, cfg.Cache.TTL, log)
	usageService := service.NewUsageService(usageRepo, cfg.Chat.DailyCreditLimit, log)
	contextBuilder := service.NewContextBuilder(eventRepo, cfg.Chat.MaxTranscriptChars, log)
	chatService := service.NewChatService(usageService, contextBuilder, selector, chatMetrics, log)

	transcriptClient := youtube.NewTranscriptClient(cfg.Chat.TranscriptAPIToken)
	summaryService := service.NewSummaryService(eventRepo, transcriptClient, openaiAdapter, keySource, log)

	checker := health.NewChecker(log, cfg.Server.Timeout)
	checker.RegisterDatabaseCheck(func() error {
		return config.TestConnection(db)
	})
	if redisStore != nil {
		checker.RegisterCacheCheck(func() error {
			return redisStore.Ping(context.Background())
		})
	}

	return &Container{
		DB:             db,
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		Secrets:        secretsManager,
		CacheStore:     store,
		Health:         checker,
		ChatMetrics:    chatMetrics,
		UserService:    userService,
		EventService:   eventService,
		UsageService:   usageService,
		ChatService:    chatService,
		SummaryService: summaryService,
	}, nil
}
