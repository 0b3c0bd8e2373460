package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
	"github.com/acrossmena/hs-classifier/internal/core/usecase"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/llm/gemini"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/llm/ollama"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/queue/nats"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/reference"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/resilience"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/rules"
	"github.com/acrossmena/hs-classifier/internal/observability/metrics"
)

type Options struct {
	// Service names the process in logs, metrics and the NATS client name.
	Service string
	// Registerer receives LLM and classification collectors. Nil disables them.
	Registerer prometheus.Registerer
	// ConnectQueue connects to NATS when NATS_URL is set.
	ConnectQueue bool
}

type App struct {
	Config config.Config

	Classifier ports.Classifier
	Reference  *domain.ReferenceTable
	Queue      *nats.Queue

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg}

	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}
	if opts.Registerer != nil {
		generator = metrics.NewInstrumentedGenerator(opts.Registerer, cfg.LLMProvider, generator)
	}

	ruleSet, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrConfig, "load rules", err)
	}

	table, err := LoadReference(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Reference = table

	classifyOpts := usecase.ClassifyOptions{
		MaxQueryRunes:       cfg.MaxQueryRunes,
		DescribeConcurrency: cfg.DescribeConcurrency,
		Timeout:             cfg.ClassifyTimeout,
		Logger:              slog.Default(),
	}
	if opts.Registerer != nil {
		classifyOpts.Observer = metrics.NewClassificationMetrics(opts.Registerer, opts.Service)
	}

	if opts.ConnectQueue && cfg.NATSURL != "" {
		queue, err := nats.New(cfg.NATSURL, nats.Options{
			ClientName:         "hs-classifier-" + opts.Service,
			EventsSubject:      cfg.NATSEventsSubject,
			ResilienceExecutor: resilience.NewExecutor(queueResilienceConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.Queue = queue
		app.closeFns = append(app.closeFns, queue.Close)
		classifyOpts.Events = queue
	}

	app.Classifier = usecase.NewClassifyUseCase(generator, table, ruleSet, classifyOpts)
	return app, nil
}

// LoadReference opens the configured reference source and reads it once.
func LoadReference(ctx context.Context, cfg config.Config) (*domain.ReferenceTable, error) {
	source, closeSource, err := reference.Open(cfg.ReferenceSource, reference.Options{
		Sheet: cfg.ReferenceSheet,
		Table: cfg.ReferenceTable,
		Columns: reference.Columns{
			Band:     cfg.ReferenceBandColumn,
			Material: cfg.ReferenceMaterialColumn,
		},
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closeSource()
	}()
	return usecase.LoadReferenceTable(ctx, source)
}

func newGenerator(cfg config.Config) (ports.TextGenerator, error) {
	policy := resilience.DefaultConfig()
	policy.RetryMaxAttempts = cfg.LLMRetryMaxAttempts
	policy.AttemptTimeout = cfg.LLMTimeout
	policy.BreakerEnabled = cfg.LLMBreakerEnabled
	executor := resilience.NewExecutor(policy)
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return gemini.New(cfg.GeminiBaseURL, cfg.GoogleAPIKey, cfg.GeminiModel, executor), nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, executor), nil
	default:
		return nil, domain.WrapError(domain.ErrConfig, "select llm provider", fmt.Errorf("unknown provider %q", cfg.LLMProvider))
	}
}

func queueResilienceConfig() resilience.Config {
	policy := resilience.DefaultConfig()
	policy.RetryMaxAttempts = 3
	policy.AttemptTimeout = 5 * time.Second
	return policy
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
}
