package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/scheme-assistant/server/internal/agent/graph"
	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/repo"
	"github.com/scheme-assistant/server/internal/agent/schemes"
	"github.com/scheme-assistant/server/internal/agent/session"
	"github.com/scheme-assistant/server/internal/core"
	logx "github.com/scheme-assistant/server/pkg/logger"
	pkgredis "github.com/scheme-assistant/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// Oracle providers
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// Agent configs
	Oracle  model.OracleConfig
	Dialog  model.DialogConfig
	Session model.SessionConfig
	Catalog model.CatalogConfig
}

func main() {
	ctx := context.Background()
	// Load .env file
	envErr := godotenv.Load(".env")

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to process environment config: %v\n", err)
		os.Exit(1)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})
	if envErr != nil {
		logx.Debug().Err(envErr).Msg("No .env file loaded")
	}

	catalog, err := loadCatalog(envCfg.Catalog)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to load scheme catalog")
	}

	store, closeStore, err := newSessionStore(ctx, envCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create session store")
	}
	defer closeStore()

	runner, err := graph.BuildTurnGraph(ctx, graph.Config{
		GeminiAPIKey:  envCfg.GeminiAPIKey,
		GeminiBaseURL: envCfg.GeminiBaseURL,
		OpenAIAPIKey:  envCfg.OpenAIAPIKey,
		OpenAIBaseURL: envCfg.OpenAIBaseURL,
		Oracle:        envCfg.Oracle,
		Dialog:        envCfg.Dialog,
		Catalog:       catalog,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build graph")
	}

	svc := session.NewService(runner, store)
	sessionID := os.Getenv("SESSION_ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logx.Info().Str("session_id", sessionID).Str("store", envCfg.Session.Store).Msg("Assistant ready")

	fmt.Println("పథకాల సహాయకుడు. /profile, /reset, /quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return
		case "/reset":
			if err := svc.Reset(ctx, sessionID); err != nil {
				logx.Error().Err(err).Msg("Reset failed")
			}
			continue
		case "/profile":
			p, err := svc.Profile(ctx, sessionID)
			if err != nil {
				logx.Error().Err(err).Msg("Profile failed")
				continue
			}
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			continue
		}

		out, err := svc.Handle(ctx, sessionID, line)
		if err != nil {
			logx.Error().Err(err).Msg("Turn failed")
			continue
		}
		fmt.Println(out.Response)
	}
	if err := scanner.Err(); err != nil {
		logx.Error().Err(err).Msg("Reading input failed")
	}
}

func loadCatalog(cfg model.CatalogConfig) (*schemes.Store, error) {
	if cfg.Path == "" {
		return schemes.LoadEmbedded()
	}
	return schemes.Load(cfg.Path)
}

// newSessionStore builds the configured session repository and its closer.
func newSessionStore(ctx context.Context, cfg AppConfig) (model.SessionRepository, func(), error) {
	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid SESSION_TTL '%s': %w", cfg.Session.TTL, err)
	}

	switch cfg.Session.Store {
	case model.StoreRedis:
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("initialise redis client: %w", err)
		}
		logx.Info().Msg("Connected to Redis successfully")
		return repo.NewRedisSessionRepository(rdb, ttl), func() { _ = rdb.Close() }, nil
	case model.StoreMemory, "":
		cleanup, err := time.ParseDuration(cfg.Session.CleanupInterval)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid SESSION_CLEANUP_INTERVAL '%s': %w", cfg.Session.CleanupInterval, err)
		}
		return repo.NewMemorySessionRepository(ttl, cleanup), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
