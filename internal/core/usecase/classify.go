package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

// ClassificationObserver receives every finished outcome.
type ClassificationObserver interface {
	ObserveClassification(outcome domain.Outcome)
}

type ClassifyOptions struct {
	MaxQueryRunes       int
	DescribeConcurrency int
	Timeout             time.Duration

	Events   ports.EventPublisher
	Observer ClassificationObserver
	Logger   *slog.Logger
}

type ClassifyUseCase struct {
	detector   *LanguageDetector
	proposer   *CodeProposer
	matcher    *CodeMatcher
	describer  *Describer
	translator *LabelTranslator

	opts   ClassifyOptions
	logger *slog.Logger
}

func NewClassifyUseCase(
	generator ports.TextGenerator,
	table ports.ReferenceReader,
	rules ports.RuleSet,
	opts ClassifyOptions,
) *ClassifyUseCase {
	if opts.DescribeConcurrency <= 0 {
		opts.DescribeConcurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyUseCase{
		detector:   NewLanguageDetector(generator),
		proposer:   NewCodeProposer(generator, rules),
		matcher:    NewCodeMatcher(table),
		describer:  NewDescriber(generator, rules),
		translator: NewLabelTranslator(generator),
		opts:       opts,
		logger:     logger,
	}
}

// Classify runs the full pipeline for one query. Every failure is returned
// as a domain.OutcomeFailure outcome.
func (uc *ClassifyUseCase) Classify(ctx context.Context, rawQuery string) domain.Outcome {
	start := time.Now()
	outcome := uc.classify(ctx, rawQuery)
	outcome.Duration = time.Since(start)
	uc.report(ctx, outcome)
	return outcome
}

func (uc *ClassifyUseCase) classify(ctx context.Context, rawQuery string) domain.Outcome {
	query, err := domain.NewQuery(rawQuery, uc.opts.MaxQueryRunes)
	if err != nil {
		return domain.Failed(err)
	}

	if uc.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.Timeout)
		defer cancel()
	}

	detection, err := uc.detector.Detect(ctx, query)
	if err != nil {
		return domain.Failed(err)
	}

	lines, err := uc.proposer.Propose(ctx, query, detection.Language)
	if err != nil {
		if domain.IsKind(err, domain.ErrNoProposals) {
			return uc.notFound(ctx, detection, domain.NotFoundNoProposals)
		}
		return domain.Failed(err)
	}

	matches := uc.matcher.Match(lines)
	if len(matches) == 0 {
		return uc.notFound(ctx, detection, domain.NotFoundNoMatch)
	}

	results, labels, err := uc.describeMatches(ctx, query, detection, matches)
	if err != nil {
		return domain.Failed(err)
	}
	return domain.Succeeded(detection.Language, results, labels)
}

// describeMatches issues the describe calls and the label translation
// concurrently. Results keep the order of matches.
func (uc *ClassifyUseCase) describeMatches(
	ctx context.Context,
	query domain.Query,
	detection domain.Detection,
	matches []domain.CandidateMatch,
) ([]domain.MatchResult, domain.LabelSet, error) {
	results := make([]domain.MatchResult, len(matches))
	var labels domain.LabelSet

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.DescribeConcurrency + 1)

	g.Go(func() error {
		translated, err := uc.translator.Translate(gctx, detection)
		if err != nil {
			return err
		}
		labels = translated
		return nil
	})

	for i, match := range matches {
		g.Go(func() error {
			desc, err := uc.describer.Describe(gctx, match.Row.MaterialDescription, query, detection.Language)
			if err != nil {
				return err
			}
			results[i] = domain.MatchResult{
				ItemLabel:   match.ItemLabel,
				HS6:         match.HS6,
				MatchedBand: match.Row.NormalizedBand,
				Description: desc,
				Tier:        match.Tier,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.LabelSet{}, err
	}
	return results, labels, nil
}

func (uc *ClassifyUseCase) notFound(ctx context.Context, detection domain.Detection, reason domain.NotFoundReason) domain.Outcome {
	return domain.NotFound(detection.Language, reason, uc.translator.NotFoundMessage(ctx, detection))
}

func (uc *ClassifyUseCase) report(ctx context.Context, outcome domain.Outcome) {
	attrs := []any{
		"outcome", string(outcome.Kind),
		"language", string(outcome.Language),
		"results", len(outcome.Results),
		"duration_ms", float64(outcome.Duration.Microseconds()) / 1000.0,
	}
	if outcome.Kind == domain.OutcomeFailure {
		uc.logger.Warn("classification_failed", append(attrs, "error", outcome.Message)...)
	} else {
		uc.logger.Info("classification_completed", attrs...)
	}

	if uc.opts.Observer != nil {
		uc.opts.Observer.ObserveClassification(outcome)
	}
	if uc.opts.Events == nil {
		return
	}

	event := ports.ClassificationEvent{
		ID:         uuid.NewString(),
		Language:   string(outcome.Language),
		Outcome:    string(outcome.Kind),
		HS6:        outcome.HS6Codes(),
		DurationMS: float64(outcome.Duration.Microseconds()) / 1000.0,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := uc.opts.Events.PublishClassification(publishCtx, event); err != nil {
		uc.logger.Warn("classification_event_publish_failed", "event_id", event.ID, "error", err)
	}
}
