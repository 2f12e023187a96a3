package mantra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"mantra/backend/internal/llm/contract"
	"mantra/backend/internal/logger"
)

const (
	defaultTimeout       = 8 * time.Second
	defaultMaxConcurrent = 10

	fragmentDelimiter = ". "
	minFragmentLength = 10
)

var ErrNoProvider = errors.New("no remote provider configured")

type ServiceOptions struct {
	// Timeout bounds the wait for a remote slot plus the remote call.
	Timeout time.Duration
	// MaxConcurrent caps in-flight remote calls across requests.
	MaxConcurrent int64
}

type Service struct {
	provider contract.Provider
	composer *Composer
	timeout  time.Duration
	slots    *semaphore.Weighted
	logger   *logger.LogMiddleware
}

// NewService builds the orchestrator. A nil provider means every request is
// served by the template fallback.
func NewService(provider contract.Provider, composer *Composer, opts ServiceOptions, log *logger.LogMiddleware) *Service {
	if composer == nil {
		composer = NewComposer(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		provider: provider,
		composer: composer,
		timeout:  opts.Timeout,
		slots:    semaphore.NewWeighted(opts.MaxConcurrent),
		logger:   log,
	}
}

// ProviderName reports the configured remote provider, or "none".
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

// Generate returns an error only for invalid requests. Every remote failure,
// and any panic while generating, is answered by the template fallback.
func (s *Service) Generate(ctx context.Context, req GenerationRequest) (result GenerationResult, err error) {
	if err := req.Validate(); err != nil {
		return GenerationResult{}, err
	}

	ctx, span := otel.Tracer("mantra/Generate").Start(ctx, "Generate")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Logger(ctx).Error("[Mantra] Recovered from panic during generation, using template system", zap.Any("panic", r))
			span.SetAttributes(attribute.String("mantra.path", string(PathFallback)))
			result = recoveryComposer.compose(req)
			err = nil
		}
	}()

	partial, remoteErr := s.AttemptRemote(ctx, req)
	path := partial.Path()
	result = s.FillGaps(partial, req)

	span.SetAttributes(attribute.String("mantra.path", string(path)))
	log := s.logger.Logger(ctx)
	if remoteErr != nil {
		span.RecordError(remoteErr)
		log.Warn("[Mantra] Remote generation failed, using template system",
			zap.String("provider", s.ProviderName()),
			zap.Error(remoteErr),
		)
	}
	log.Info("[Mantra] Generated mantra",
		zap.String("path", string(path)),
		zap.String("provider", s.ProviderName()),
		zap.Int("lesson_length", len(req.Lesson)),
		zap.Int("fear_length", len(req.Fear)),
	)
	return result, nil
}

type remoteResult struct {
	text string
	err  error
}

// AttemptRemote makes one bounded call to the provider and splits the text
// into pro tip and mantra fragments. On error the partial is empty.
func (s *Service) AttemptRemote(ctx context.Context, req GenerationRequest) (Partial, error) {
	if s.provider == nil {
		return Partial{}, ErrNoProvider
	}

	ctx, span := otel.Tracer("mantra/AttemptRemote").Start(ctx, "AttemptRemote")
	defer span.End()
	span.SetAttributes(attribute.String("provider", s.provider.Name()))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return Partial{}, fmt.Errorf("acquire generation slot: %w", err)
	}

	// The call runs on its own goroutine so the deadline holds even for a
	// provider that ignores ctx. The slot is held until the call returns.
	done := make(chan remoteResult, 1)
	go func() {
		defer s.slots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- remoteResult{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		text, err := s.provider.Generate(ctx, BuildPrompt(req))
		done <- remoteResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return Partial{}, fmt.Errorf("%s generate: %w", s.provider.Name(), ctx.Err())
	case res := <-done:
		if res.err != nil {
			return Partial{}, fmt.Errorf("%s generate: %w", s.provider.Name(), res.err)
		}
		partial := ParseFragments(res.text)
		if partial.Path() == PathFallback {
			return partial, fmt.Errorf("%s generate: %w", s.provider.Name(), contract.ErrEmptyResponse)
		}
		return partial, nil
	}
}

// FillGaps completes a partial result with template output, independently
// per slot.
func (s *Service) FillGaps(partial Partial, req GenerationRequest) GenerationResult {
	result := GenerationResult{ProTip: partial.ProTip, Mantra: partial.Mantra}
	if result.ProTip != "" && result.Mantra != "" {
		return result
	}

	lesson := Classify(req.Lesson, CategoryLesson)
	if result.ProTip == "" {
		result.ProTip = s.composer.ProTip(lesson)
	}
	if result.Mantra == "" {
		result.Mantra = s.composer.Mantra(Classify(req.Fear, CategoryFear), lesson)
	}
	return result
}

// Fallback is the fully local result.
func (s *Service) Fallback(req GenerationRequest) GenerationResult {
	return s.FillGaps(Partial{}, req)
}

// recoveryComposer answers after a panic; it never uses the injected source,
// which may be what panicked.
var recoveryComposer = NewComposer(nil)

func (c *Composer) compose(req GenerationRequest) GenerationResult {
	lesson := Classify(req.Lesson, CategoryLesson)
	return GenerationResult{
		ProTip: c.ProTip(lesson),
		Mantra: c.Mantra(Classify(req.Fear, CategoryFear), lesson),
	}
}

func BuildPrompt(req GenerationRequest) string {
	return fmt.Sprintf("Create an inspiring professional mantra for a tech graduate. Lesson learned: %s. Fear: %s.",
		strings.TrimSpace(req.Lesson), strings.TrimSpace(req.Fear))
}

// ParseFragments splits generated text on ". " and keeps fragments longer
// than ten characters; the first is the pro tip, the second the mantra.
func ParseFragments(text string) Partial {
	var kept []string
	for _, fragment := range strings.Split(text, fragmentDelimiter) {
		if utf8.RuneCountInString(fragment) > minFragmentLength {
			kept = append(kept, fragment)
		}
		if len(kept) == 2 {
			break
		}
	}

	var partial Partial
	if len(kept) > 0 {
		partial.ProTip = kept[0]
	}
	if len(kept) > 1 {
		partial.Mantra = kept[1]
	}
	return partial
}
