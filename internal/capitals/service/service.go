// Package service implements the resolution engine: exact lookup, fuzzy
// suggestions against the local and remote corpora, and the
// validate-then-persist workflow for new entries.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"capfinder/internal/capitals/directory"
	"capfinder/internal/capitals/matcher"
	"capfinder/internal/capitals/models"
	"capfinder/internal/capitals/normalize"
	"capfinder/internal/platform/metrics"
	dErrors "capfinder/pkg/domain-errors"
)

// The local corpus is small and curated so a higher threshold still surfaces
// candidates; the remote corpus is large and noisy and needs a lower one.
const (
	localThreshold  = 60
	remoteThreshold = 50
	suggestionLimit = 5
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Directory

// Store is the persisted country-to-capital mapping the engine resolves against.
type Store interface {
	Lookup(ctx context.Context, country string) (string, error)
	Insert(ctx context.Context, entry models.CapitalEntry) error
	Keys(ctx context.Context) []string
}

// Directory is the remote authoritative country dataset. AllCountries degrades
// to an empty list when the directory is unreachable; Validate degrades to
// directory.ErrNotFound.
type Directory interface {
	AllCountries(ctx context.Context) []string
	Validate(ctx context.Context, name string) (string, error)
}

// Service orchestrates Store, Directory, and the matcher. It owns no state of
// its own beyond these references, so all operations are safe to call
// concurrently as long as the store is.
type Service struct {
	store     Store
	directory Directory
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a resolution engine over the given store and directory.
func New(store Store, dir Directory, opts ...Option) *Service {
	s := &Service{
		store:     store,
		directory: dir,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveExact returns the stored capital for country, matching on the
// normalized name. A miss wraps store.ErrNotFound; it is a soft outcome that
// sends the caller to SuggestLocal, not an error to surface.
func (s *Service) ResolveExact(ctx context.Context, country string) (string, error) {
	capital, err := s.store.Lookup(ctx, country)
	if err != nil {
		s.countResolution("miss")
		return "", err
	}
	s.countResolution("hit")
	return capital, nil
}

// SuggestLocal ranks the local corpus against country and returns candidates
// re-cased to display form. It never touches the network.
func (s *Service) SuggestLocal(ctx context.Context, country string) []models.MatchCandidate {
	candidates := matcher.Rank(country, s.store.Keys(ctx), localThreshold, suggestionLimit)
	for i := range candidates {
		candidates[i].Name = normalize.Display(candidates[i].Name)
	}
	s.countSuggestion("local")
	return candidates
}

// SuggestRemote ranks the remote directory's full list against country. An
// unavailable directory yields an empty slice, not an error.
func (s *Service) SuggestRemote(ctx context.Context, country string) []models.MatchCandidate {
	corpus := s.directory.AllCountries(ctx)
	if len(corpus) == 0 {
		return nil
	}
	s.countSuggestion("remote")
	return matcher.Rank(country, corpus, remoteThreshold, suggestionLimit)
}

// ConfirmAndSave validates country against the remote directory and, on
// success, persists an entry under the directory's canonical name (not the
// raw input) with the capital in display form. The returned SaveResult is a
// three-way outcome: saved, needs-disambiguation with remote candidates, or
// invalid country. Persistence failures propagate unchanged.
func (s *Service) ConfirmAndSave(ctx context.Context, country, capital string) (*models.SaveResult, error) {
	country = strings.TrimSpace(country)
	capital = strings.TrimSpace(capital)
	if country == "" || capital == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "country and capital are required")
	}

	canonical, err := s.directory.Validate(ctx, country)
	if err != nil {
		if !errors.Is(err, directory.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "validate country")
		}
		s.countValidation("not_found")
		if suggestions := s.SuggestRemote(ctx, country); len(suggestions) > 0 {
			return &models.SaveResult{
				Status:      models.SaveStatusNeedsDisambiguation,
				Suggestions: suggestions,
			}, nil
		}
		return &models.SaveResult{Status: models.SaveStatusInvalidCountry}, nil
	}
	s.countValidation("ok")

	entry := models.CapitalEntry{
		Country: canonical,
		Capital: normalize.Display(capital),
		Type:    models.EntryType,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist entry",
			"country", entry.Country,
			"error", err,
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EntriesSaved.Inc()
	}
	s.logger.InfoContext(ctx, "entry saved", "country", entry.Country, "capital", entry.Capital)
	return &models.SaveResult{Status: models.SaveStatusSaved, Entry: &entry}, nil
}

func (s *Service) countResolution(outcome string) {
	if s.metrics != nil {
		s.metrics.Resolutions.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countSuggestion(corpus string) {
	if s.metrics != nil {
		s.metrics.Suggestions.WithLabelValues(corpus).Inc()
	}
}

func (s *Service) countValidation(result string) {
	if s.metrics != nil {
		s.metrics.Validations.WithLabelValues(result).Inc()
	}
}
