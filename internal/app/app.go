// Package app builds the object graph shared by the server and the CLI:
// storage, the selected model clients, their provider wrappers, the two
// generators and the orchestrator.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fleveque/namesmith/internal/config"
	"github.com/fleveque/namesmith/internal/llm"
	"github.com/fleveque/namesmith/internal/metrics"
	"github.com/fleveque/namesmith/internal/provider"
	"github.com/fleveque/namesmith/internal/service"
	"github.com/fleveque/namesmith/internal/storage"
)

// App holds the wired components.
type App struct {
	Orchestrator *service.Orchestrator
	Calls        storage.CallRepository
	Registry     *prometheus.Registry
	Recorder     *metrics.Recorder

	db *sqlx.DB
}

// New wires everything from cfg. cfg must already have passed Validate.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(reg)
	calls := storage.NewCallRepository(db)

	textClient, imageClient, err := Clients(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Each wrapper paces its own provider and writes every call to the audit log.
	text := provider.NewTextProvider(textClient, cfg.LLM.RatePerMinute, calls, recorder, logger)
	images := provider.NewImageProvider(imageClient, cfg.LLM.RatePerMinute, calls, recorder, logger)

	ideas := service.NewIdeaGenerator(text, cfg.Batch.IdeaCount, logger)
	logos := service.NewLogoGenerator(images, text, service.NewImageProcessor(), cfg.Image.Size, logger)
	policy := service.Policy{
		MaxConcurrentIdeas: cfg.Batch.MaxConcurrentIdeas,
		IdeasPerMinute:     cfg.Batch.IdeasPerMinute,
	}

	logger.Info("model providers ready",
		zap.String("text_provider", textClient.ProviderName()),
		zap.String("text_model", textClient.ModelName()),
		zap.String("image_provider", imageClient.ProviderName()),
		zap.String("image_model", imageClient.ModelName()),
		zap.Int("max_concurrent_ideas", policy.MaxConcurrentIdeas),
	)

	return &App{
		Orchestrator: service.NewOrchestrator(ideas, logos, policy, recorder, logger),
		Calls:        calls,
		Registry:     reg,
		Recorder:     recorder,
		db:           db,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

// OpenDatabase opens the audit database, creating its directory if needed.
func OpenDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Clients builds the raw clients for the configured text and image providers.
// Clients of the same vendor share one underlying SDK client.
func Clients(ctx context.Context, cfg *config.Config) (llm.TextClient, llm.ImageClient, error) {
	var (
		gemini *genai.Client
		oai    *openai.Client
	)
	geminiClient := func() (*genai.Client, error) {
		if gemini != nil {
			return gemini, nil
		}
		var err error
		gemini, err = llm.NewGenAIClient(ctx, cfg.LLM.Gemini.APIKey)
		return gemini, err
	}
	openAIClient := func() *openai.Client {
		if oai == nil {
			oai = llm.NewOpenAIAPI(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.BaseURL)
		}
		return oai
	}

	var text llm.TextClient
	switch cfg.LLM.TextProvider {
	case config.ProviderGemini:
		c, err := geminiClient()
		if err != nil {
			return nil, nil, err
		}
		text = llm.NewGeminiClient(c, cfg.LLM.Gemini.TextModel)
	case config.ProviderOpenAI:
		text = llm.NewOpenAIClient(openAIClient(), cfg.LLM.OpenAI.Model)
	case config.ProviderAnthropic:
		text = llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model, cfg.LLM.Anthropic.BaseURL)
	default:
		return nil, nil, fmt.Errorf("unknown text provider: %q", cfg.LLM.TextProvider)
	}

	var image llm.ImageClient
	switch cfg.LLM.ImageProvider {
	case config.ProviderGemini:
		c, err := geminiClient()
		if err != nil {
			return nil, nil, err
		}
		image = llm.NewImagenClient(c, cfg.LLM.Gemini.ImageModel)
	case config.ProviderOpenAI:
		image = llm.NewOpenAIImageClient(openAIClient(), cfg.LLM.OpenAI.ImageModel)
	default:
		return nil, nil, fmt.Errorf("image provider %q cannot generate images", cfg.LLM.ImageProvider)
	}

	return text, image, nil
}
