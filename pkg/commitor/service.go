// pkg/commitor/service.go
//
// Service runs one commit-message cycle: build the change set from the index,
// settle the output language, ask the provider for a message and parse it.
// It holds no process-wide state; everything comes in through Options.

package commitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frkngnc/commitor/pkg/ai"
	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/frkngnc/commitor/pkg/classify"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/git"
	"github.com/frkngnc/commitor/pkg/language"
	"github.com/frkngnc/commitor/pkg/message"
	"github.com/frkngnc/commitor/pkg/prompt"
	"github.com/frkngnc/commitor/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds generation attempts per cycle.
const DefaultMaxAttempts = 3

// ErrLanguageUndecided is returned by ResolveLanguage in auto mode when the
// repository gives no clear signal. Callers usually ask the user.
var ErrLanguageUndecided = errors.New("repository language could not be determined")

// RetryFunc is consulted before every retry. Returning false stops the cycle
// with the last error.
type RetryFunc func(ctx context.Context, attempt int, err error) bool

// Committer writes a commit.
type Committer interface {
	Commit(ctx context.Context, message string, amend bool) (git.CommitResult, error)
}

// Options wires a Service. Repo is required; Provider is needed only for GenerateMessage.
type Options struct {
	Repo      changeset.Repository
	Log       language.LogReader
	Committer Committer
	Provider  ai.Provider
	// ReadmeDir is where README.md is looked up, normally the work tree root.
	ReadmeDir      string
	Classifier     changeset.Classifier
	LanguagePolicy language.Policy
	Concurrency    int
	MaxAttempts    int
	// RetryDelay is slept between attempts; zero retries immediately.
	RetryDelay time.Duration
	OnRetry    RetryFunc
	// Debug logs raw provider output and the parsed message.
	Debug bool
}

// Service is the commit-message orchestrator.
type Service struct {
	builder     *changeset.Builder
	detector    *language.Detector
	committer   Committer
	provider    ai.Provider
	maxAttempts int
	retryDelay  time.Duration
	onRetry     RetryFunc
	debug       bool
	attempts    metric.Int64Counter
}

// New validates opts and fills defaults.
func New(opts Options) (*Service, error) {
	if opts.Repo == nil {
		return nil, fmt.Errorf("commitor: Options.Repo is required")
	}
	if opts.Classifier == nil {
		opts.Classifier = classify.DefaultPolicy
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	builder := changeset.NewBuilder(opts.Repo, opts.Classifier)
	if opts.Concurrency > 0 {
		builder.Concurrency = opts.Concurrency
	}

	detector := language.NewDetector(opts.ReadmeDir, opts.Log)
	if opts.Log == nil {
		detector.Sources = detector.Sources[:1]
	}
	if opts.LanguagePolicy != (language.Policy{}) {
		detector.Policy = opts.LanguagePolicy
	}

	var counter metric.Int64Counter
	counter, err := telemetry.Meter().Int64Counter("commitor.generation.attempts",
		metric.WithDescription("Provider calls made while generating commit messages"))
	if err != nil {
		counter = noop.Int64Counter{}
	}

	return &Service{
		builder:     builder,
		detector:    detector,
		committer:   opts.Committer,
		provider:    opts.Provider,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		onRetry:     opts.OnRetry,
		debug:       opts.Debug,
		attempts:    counter,
	}, nil
}

// MaxAttempts is the configured attempt bound.
func (s *Service) MaxAttempts() int { return s.maxAttempts }

// Analyze builds the change set of the staged index.
func (s *Service) Analyze(ctx context.Context) (*changeset.ChangeSet, error) {
	ctx, span := telemetry.Start(ctx, "commitor.Analyze")
	defer span.End()

	cs, err := s.builder.Build(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	st := cs.Stats()
	span.SetAttributes(
		attribute.Int("files", st.FileCount),
		attribute.Int("additions", st.TotalAdditions),
		attribute.Int("deletions", st.TotalDeletions),
		attribute.String("type", cs.Type.String()),
	)
	return cs, nil
}

// DetectLanguage scores the README and recent commit messages.
func (s *Service) DetectLanguage(ctx context.Context) language.Result {
	return s.detector.Detect(ctx)
}

// ResolveLanguage turns the configured preference into the label used in the
// prompt. detected is true when the label came from repository signals.
func (s *Service) ResolveLanguage(ctx context.Context, pref config.Language, custom string) (label string, detected bool, err error) {
	switch pref {
	case config.LanguageTurkish, config.LanguageEnglish:
		return language.Label(string(pref)), false, nil

	case config.LanguageCustom:
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", false, commitor_err.New(commitor_err.ConfigurationMissing,
				"language is set to custom but no custom language is configured",
				"run `commitor config set custom_language <name>`")
		}
		return custom, false, nil

	case config.LanguageAuto, "":
		res := s.DetectLanguage(ctx)
		if !res.Decided() {
			return "", true, ErrLanguageUndecided
		}
		return language.Label(string(res.Language)), true, nil

	default:
		return "", false, commitor_err.New(commitor_err.ConfigurationMissing,
			fmt.Sprintf("unknown language preference %q", pref),
			"use one of: tr, en, auto, custom")
	}
}

// GenerateMessage asks the provider for a message until one parses or the
// attempt bound is reached. Credential and rate-limit failures stop at once.
func (s *Service) GenerateMessage(ctx context.Context, cs *changeset.ChangeSet, lang string) (message.CommitMessage, error) {
	if s.provider == nil {
		return message.CommitMessage{}, commitor_err.New(commitor_err.ConfigurationMissing,
			"no generation provider configured", "run `commitor config init`")
	}

	cycleID := uuid.NewString()
	ctx, span := telemetry.Start(ctx, "commitor.GenerateMessage",
		attribute.String("cycle_id", cycleID),
		attribute.String("provider", s.provider.Name()),
		attribute.String("language", lang),
		attribute.Int("max_attempts", s.maxAttempts),
	)
	defer span.End()

	logger := otelzap.Ctx(ctx).WithOptions(zap.Fields(zap.String("cycle_id", cycleID), zap.String("provider", s.provider.Name())))

	req := ai.Request{
		Prompt: prompt.Compile(cs, lang),
		System: prompt.System(lang),
	}

	var lastErr error
	attempt := 0
	for attempt < s.maxAttempts {
		if attempt > 0 {
			if s.onRetry != nil && !s.onRetry(ctx, attempt, lastErr) {
				break
			}
			if err := sleepCtx(ctx, s.retryDelay); err != nil {
				return message.CommitMessage{}, err
			}
		}
		if err := ctx.Err(); err != nil {
			return message.CommitMessage{}, err
		}

		attempt++
		s.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", s.provider.Name())))
		logger.Debug("Requesting commit message", zap.Int("attempt", attempt))

		msg, err := s.attemptOnce(ctx, req)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			logger.Debug("Commit message generated",
				zap.Int("attempt", attempt),
				zap.String("type", msg.Type()))
			return msg, nil
		}
		if ctx.Err() != nil {
			return message.CommitMessage{}, ctx.Err()
		}
		if fatal := fatalError(err); fatal != nil {
			span.RecordError(fatal)
			span.SetStatus(codes.Error, fatal.Error())
			return message.CommitMessage{}, fatal
		}

		lastErr = err
		logger.Warn("Generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.maxAttempts),
			zap.Error(err))
	}

	span.SetAttributes(attribute.Int("attempts", attempt))
	final := exhausted(lastErr, attempt)
	span.RecordError(final)
	span.SetStatus(codes.Error, final.Error())
	return message.CommitMessage{}, final
}

func (s *Service) attemptOnce(ctx context.Context, req ai.Request) (message.CommitMessage, error) {
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return message.CommitMessage{}, err
	}
	if s.debug {
		otelzap.Ctx(ctx).Debug("Raw provider output", zap.String("raw", resp.Text))
	}

	msg, err := message.Parse(resp.Text)
	if err != nil {
		return message.CommitMessage{}, err
	}
	if s.debug {
		otelzap.Ctx(ctx).Debug("Parsed commit message", zap.Any("message", msg))
	}
	return msg, nil
}

// Validate checks the message against the conventional-commit rules.
func (s *Service) Validate(m message.CommitMessage) message.Report {
	return message.Validate(m)
}

// Commit writes m to the repository.
func (s *Service) Commit(ctx context.Context, m message.CommitMessage, amend bool) (git.CommitResult, error) {
	if s.committer == nil {
		return git.CommitResult{}, fmt.Errorf("commitor: no committer configured")
	}
	if m.IsZero() {
		return git.CommitResult{}, commitor_err.NewValidationError("refusing to commit an empty message")
	}
	return s.committer.Commit(ctx, m.Raw(), amend)
}

// fatalError maps the provider failures that must not be retried.
func fatalError(err error) error {
	pe, ok := ai.AsProviderError(err)
	if !ok {
		return nil
	}
	switch pe.Code {
	case ai.InvalidCredential:
		return commitor_err.Wrap(commitor_err.GenerationAuthError, err,
			fmt.Sprintf("%s rejected the API key", pe.Provider),
			"run `commitor config init` to store a valid key",
			"or run `commitor doctor` to check the provider")
	case ai.RateLimited:
		return commitor_err.Wrap(commitor_err.GenerationRateLimited, err,
			fmt.Sprintf("%s rate limit reached", pe.Provider),
			"wait a minute and try again",
			"or lower requests_per_minute with `commitor config set`")
	}
	return nil
}

func exhausted(lastErr error, attempts int) error {
	if lastErr == nil {
		return commitor_err.New(commitor_err.GenerationServerError,
			"generation was stopped before any attempt completed")
	}
	if commitor_err.Is(lastErr, commitor_err.EmptyGeneratedMessage) {
		return commitor_err.Wrap(commitor_err.EmptyGeneratedMessage, lastErr,
			fmt.Sprintf("provider returned no usable message after %d attempt(s)", attempts),
			"try again, or switch model with --model")
	}
	return commitor_err.Wrap(commitor_err.GenerationServerError, lastErr,
		fmt.Sprintf("generation failed after %d attempt(s)", attempts),
		"the provider may be unavailable; try again later",
		"run `commitor doctor` to check connectivity")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
