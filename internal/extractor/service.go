// Package extractor runs one engagement extraction: classify the post URL,
// fetch reactions then comments, normalize both, and merge them into a
// deduplicated result.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"postreach/internal/domain"
	"postreach/internal/metrics"
	"postreach/internal/normalize"
	"postreach/internal/posturl"
	"postreach/internal/upstream"
)

const (
	MessageNoEngagement = "No engagement data found. The post may be private, have no engagement, or the API may not have access to this content."
	MessageDemo         = "Demo mode: Showing sample data. The actual API may not have data for this post."
	MessageNoIdentifier = "Could not extract an activity ID from the post URL."
)

// Service performs extractions. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	fetcher  upstream.Fetcher
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	demoMode bool
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithMetrics records pipeline metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDemoMode makes empty extractions return sample profiles.
func WithDemoMode(enabled bool) Option {
	return func(s *Service) { s.demoMode = enabled }
}

// NewService creates an extraction service backed by fetcher.
func NewService(fetcher upstream.Fetcher, logger logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		log:     logger.WithField("component", "extractor"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract runs the full pipeline for postURL.
// Only an unrecognized URL is returned as an error (*posturl.InvalidURLError);
// upstream problems end up in ExtractionResult.Errors.
func (s *Service) Extract(ctx context.Context, postURL string) (*domain.ExtractionResult, error) {
	postURL = strings.TrimSpace(postURL)
	log := s.log.WithField("post_url", postURL)

	ref, err := posturl.Classify(postURL)
	if err != nil {
		log.WithError(err).Info("Rejected post URL")
		s.metrics.ObserveExtraction(metrics.OutcomeInvalid)
		return nil, err
	}

	result := &domain.ExtractionResult{
		PostURL:     ref.URL,
		ActivityID:  ref.ActivityID,
		ExtractedAt: s.now().UTC(),
	}

	var all []domain.Profile
	if !ref.HasActivityID() {
		log.Warn("Could not extract activity ID from URL; skipping upstream fetches")
		result.Errors = append(result.Errors, MessageNoIdentifier)
		s.metrics.ObserveFetch(string(upstream.SourceReactions), metrics.OutcomeSkipped, 0)
		s.metrics.ObserveFetch(string(upstream.SourceComments), metrics.OutcomeSkipped, 0)
	} else {
		log = log.WithField("activity_id", ref.ActivityID)

		// Reactions first: on duplicates the reaction profile is kept.
		reactions, fetchErr := s.fetchSource(ctx, log, upstream.SourceReactions, ref.ActivityID, s.fetcher.FetchReactions, normalize.NormalizeReactions)
		if fetchErr != "" {
			result.Errors = append(result.Errors, fetchErr)
		}
		result.ReactionCount = len(reactions)
		all = append(all, reactions...)

		comments, fetchErr := s.fetchSource(ctx, log, upstream.SourceComments, ref.ActivityID, s.fetcher.FetchComments, normalize.NormalizeComments)
		if fetchErr != "" {
			result.Errors = append(result.Errors, fetchErr)
		}
		result.CommentCount = len(comments)
		all = append(all, comments...)
	}

	unique := normalize.Deduplicate(all)
	s.metrics.ObserveDuplicates(len(all) - len(unique))

	if len(unique) == 0 {
		if s.demoMode {
			log.Info("No engagement found; returning demo data")
			s.applyDemo(result)
		} else {
			log.Info("No engagement found")
			result.Profiles = []domain.Profile{}
			result.Message = MessageNoEngagement
		}
		s.metrics.ObserveExtraction(metrics.OutcomeEmpty)
		return result, nil
	}

	result.Profiles = unique
	result.TotalCount = len(unique)

	log.WithFields(logrus.Fields{
		"total":     result.TotalCount,
		"reactions": result.ReactionCount,
		"comments":  result.CommentCount,
		"errors":    len(result.Errors),
	}).Info("Extraction completed")
	s.metrics.ObserveExtraction(metrics.OutcomeOK)
	return result, nil
}

type fetchFunc func(ctx context.Context, activityID string) (any, error)

type normalizeFunc func(raw any) []domain.Profile

// fetchSource fetches and normalizes one source. A failure is returned as a
// diagnostic message and never as an error, so the other source still runs.
func (s *Service) fetchSource(
	ctx context.Context,
	log logrus.FieldLogger,
	source upstream.Source,
	activityID string,
	fetch fetchFunc,
	normalizeRaw normalizeFunc,
) ([]domain.Profile, string) {
	log = log.WithField("source", source)

	start := time.Now()
	raw, err := fetch(ctx, activityID)
	elapsed := time.Since(start)

	if err != nil {
		log.WithError(err).Warn("Upstream fetch failed")
		s.metrics.ObserveFetch(string(source), metrics.OutcomeError, elapsed)
		return nil, fmt.Sprintf("Error fetching %s: %s", source, describeFetchError(err))
	}
	if raw == nil {
		log.Info("Upstream returned no data")
		s.metrics.ObserveFetch(string(source), metrics.OutcomeEmpty, elapsed)
		return nil, ""
	}
	s.metrics.ObserveFetch(string(source), metrics.OutcomeOK, elapsed)

	profiles := normalizeRaw(raw)
	skipped := len(normalize.Records(raw)) - len(profiles)
	if skipped > 0 {
		log.WithField("skipped", skipped).Debug("Dropped records without a profile URL")
	}
	s.metrics.ObserveNormalized(string(source), len(profiles), skipped)
	return profiles, ""
}

func describeFetchError(err error) string {
	var fe *upstream.FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		if fe.Status != 0 {
			return fmt.Sprintf("status %d: %v", fe.Status, fe.Err)
		}
		return fe.Err.Error()
	}
	return err.Error()
}
