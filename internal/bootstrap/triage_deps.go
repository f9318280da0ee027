package bootstrap

import (
	"os"
	"strings"
	"time"

	cacheadapter "mailtriage/adapter/out/cache"
	"mailtriage/adapter/out/model"
	"mailtriage/adapter/out/persistence"
	"mailtriage/config"
	"mailtriage/core/agent/llm"
	"mailtriage/core/port/in"
	"mailtriage/core/port/out"
	"mailtriage/core/service/boost"
	"mailtriage/core/service/classify"
	"mailtriage/core/service/normalize"
	"mailtriage/core/service/reply"
	"mailtriage/core/service/triage"
	"mailtriage/infra/database"
	"mailtriage/pkg/cache"
	"mailtriage/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Pipeline components
	Normalizer *normalize.Normalizer
	Pipeline   *classify.Pipeline
	Booster    *boost.Booster
	Replies    *reply.Service

	// Outbound adapters
	HistoryRepo out.HistoryRepository
	ResultCache out.ResultCache

	// Generator
	LLMClient *llm.Client

	// Use case
	TriageService in.TriageService
}

// UsingModel reports whether a trained model backs classification.
func (d *Dependencies) UsingModel() bool {
	return d.Pipeline != nil && d.Pipeline.UsingModel()
}

// UsingGenerator reports whether replies come from the LLM generator.
func (d *Dependencies) UsingGenerator() bool {
	return d.LLMClient != nil
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// Database (optional; triage runs stateless without it)
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Postgres connection failed, history disabled: %v", err)
		} else {
			deps.DB = db
			cleanups = append(cleanups, func() { db.Close() })

			sqlxURL := cfg.DatabaseURL
			if strings.Contains(sqlxURL, "?") {
				sqlxURL += "&default_query_exec_mode=simple_protocol"
			} else {
				sqlxURL += "?default_query_exec_mode=simple_protocol"
			}
			sqlDB, err := sqlx.Connect("pgx", sqlxURL)
			if err != nil {
				logger.Warn("sqlx connection failed, history disabled: %v", err)
			} else {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(10)
				sqlDB.SetConnMaxLifetime(30 * time.Minute)
				sqlDB.SetConnMaxIdleTime(5 * time.Minute)

				deps.SQLDB = sqlDB
				cleanups = append(cleanups, func() { sqlDB.Close() })

				deps.HistoryRepo = persistence.NewHistoryAdapter(sqlDB)
				logger.Info("History store initialized")
			}
		}
	}

	// Redis (optional result cache)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, result cache disabled: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })

			ttl := time.Duration(cfg.CacheTTLMin) * time.Minute
			deps.ResultCache = cacheadapter.NewResultCacheAdapter(cache.NewRedisCache(redisClient), ttl)
			logger.Info("Result cache initialized (ttl: %v)", ttl)
		}
	}

	// Classification model (optional; heuristics cover its absence)
	trainedModel, err := model.Load(cfg.ModelPath)
	if err != nil {
		logger.WithError(err).Warn("Model load failed, classification falls back to heuristics")
		trainedModel = nil
	}

	// Pipeline components
	deps.Normalizer = normalize.New()

	var classifierModel out.Model
	if trainedModel != nil {
		classifierModel = trainedModel
	}
	deps.Pipeline = classify.NewPipeline(classifierModel, deps.Normalizer, classify.DefaultConfig())

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "booster").Logger()
	deps.Booster = boost.NewBooster(zlog)

	// Reply generator (optional; templates cover its absence)
	var generator out.ReplyGenerator
	if cfg.OpenAIAPIKey != "" {
		deps.LLMClient = llm.NewClient(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
		generator = deps.LLMClient
		logger.Info("Reply generator initialized (model: %s)", cfg.LLMModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, replies use templates")
	}

	deps.Replies = reply.NewService(generator, time.Duration(cfg.LLMTimeoutSec)*time.Second)

	deps.TriageService = triage.NewService(
		deps.Normalizer,
		deps.Pipeline,
		deps.Booster,
		deps.Replies,
		deps.ResultCache,
		deps.HistoryRepo,
	)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	return deps, cleanup, nil
}
