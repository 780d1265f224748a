package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postreach/internal/domain"
	"postreach/internal/metrics"
	"postreach/internal/posturl"
	"postreach/internal/upstream"
)

const testPostURL = "https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/"

// fakeFetcher returns canned payloads and records the calls it received.
type fakeFetcher struct {
	reactions    string
	comments     string
	reactionsErr error
	commentsErr  error
	calls        []string
}

func decodeJSON(s string) any {
	if s == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}

func (f *fakeFetcher) FetchReactions(ctx context.Context, activityID string) (any, error) {
	f.calls = append(f.calls, "reactions:"+activityID)
	if f.reactionsErr != nil {
		return nil, f.reactionsErr
	}
	return decodeJSON(f.reactions), nil
}

func (f *fakeFetcher) FetchComments(ctx context.Context, activityID string) (any, error) {
	f.calls = append(f.calls, "comments:"+activityID)
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return decodeJSON(f.comments), nil
}

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(f upstream.Fetcher, opts ...Option) *Service {
	s := NewService(f, testLogger(), opts...)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestExtract_MergesSourcesFirstWins(t *testing.T) {
	f := &fakeFetcher{
		reactions: `{"data":[{"reactor":{"linkedin_url":"https://linkedin.com/in/a","name":"A"},"type":"LIKE"}]}`,
		comments:  `{"data":[{"profile_url":"https://linkedin.com/in/a","comment":"hi"}]}`,
	}
	svc := newTestService(f)

	res, err := svc.Extract(context.Background(), testPostURL)
	require.NoError(t, err)

	require.Len(t, res.Profiles, 1)
	assert.Equal(t, "https://linkedin.com/in/a", res.Profiles[0].ProfileURL)
	assert.Equal(t, domain.EngagementReaction, res.Profiles[0].EngagementType)
	assert.Equal(t, "LIKE", res.Profiles[0].ReactionType)
	assert.Equal(t, 1, res.ReactionCount)
	assert.Equal(t, 1, res.CommentCount)
	assert.Equal(t, 1, res.TotalCount)
	assert.Equal(t, testPostURL, res.PostURL)
	assert.Equal(t, "7123456789012345678", res.ActivityID)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Message)
	assert.Equal(t, time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC), res.ExtractedAt)

	assert.Equal(t, []string{"reactions:7123456789012345678", "comments:7123456789012345678"}, f.calls)
}

func TestExtract_CountsArePreDedup(t *testing.T) {
	f := &fakeFetcher{
		reactions: `{"data":[
			{"reactor":{"linkedin_url":"https://linkedin.com/in/a"}},
			{"reactor":{"linkedin_url":"https://linkedin.com/in/b"}},
			{"reactor":{"name":"no url"}}
		]}`,
		comments: `[
			{"profile_url":"https://linkedin.com/in/B/","comment":"dup"},
			{"profile_url":"https://linkedin.com/in/c","comment":"new"}
		]`,
	}
	svc := newTestService(f)

	res, err := svc.Extract(context.Background(), testPostURL)
	require.NoError(t, err)

	assert.Equal(t, 2, res.ReactionCount)
	assert.Equal(t, 2, res.CommentCount)
	assert.Equal(t, 3, res.TotalCount)
	require.Len(t, res.Profiles, 3)
	assert.Equal(t, "https://linkedin.com/in/c", res.Profiles[2].ProfileURL)
	assert.Equal(t, "new", res.Profiles[2].CommentText)
}

func TestExtract_InvalidURL(t *testing.T) {
	f := &fakeFetcher{}
	svc := newTestService(f)

	res, err := svc.Extract(context.Background(), "https://example.com/nope")
	assert.Nil(t, res)

	var invalid *posturl.InvalidURLError
	require.True(t, errors.As(err, &invalid))
	assert.Empty(t, f.calls, "no upstream call for invalid input")
}

func TestExtract_OneSourceFails(t *testing.T) {
	f := &fakeFetcher{
		reactionsErr: &upstream.FetchError{Source: upstream.SourceReactions, Status: 500, Err: upstream.ErrUnexpectedStatus},
		comments:     `{"data":[{"profile_url":"https://linkedin.com/in/z","text":"still here"}]}`,
	}
	m := metrics.New()
	svc := newTestService(f, WithMetrics(m))

	res, err := svc.Extract(context.Background(), testPostURL)
	require.NoError(t, err)

	require.Len(t, res.Profiles, 1)
	assert.Equal(t, domain.EngagementComment, res.Profiles[0].EngagementType)
	assert.Equal(t, 0, res.ReactionCount)
	assert.Equal(t, 1, res.CommentCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Error fetching reactions")
	assert.Contains(t, res.Errors[0], "status 500")
	assert.Len(t, f.calls, 2, "comments are fetched even after reactions failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFetches.WithLabelValues("reactions", metrics.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFetches.WithLabelValues("comments", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues(metrics.OutcomeOK)))
}

func TestExtract_BothSourcesFail(t *testing.T) {
	f := &fakeFetcher{
		reactionsErr: &upstream.FetchError{Source: upstream.SourceReactions, Err: upstream.ErrTimeout},
		commentsErr:  errors.New("boom"),
	}
	svc := newTestService(f)

	res, err := svc.Extract(context.Background(), testPostURL)
	require.NoError(t, err)

	assert.Empty(t, res.Profiles)
	assert.NotNil(t, res.Profiles)
	assert.Equal(t, MessageNoEngagement, res.Message)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "timed out")
	assert.Equal(t, "Error fetching comments: boom", res.Errors[1])
}

func TestExtract_NoEngagement(t *testing.T) {
	f := &fakeFetcher{} // both endpoints answer without data
	svc := newTestService(f)

	res, err := svc.Extract(context.Background(), testPostURL)
	require.NoError(t, err)

	assert.Empty(t, res.Profiles)
	assert.Zero(t, res.TotalCount)
	assert.Zero(t, res.ReactionCount)
	assert.Zero(t, res.CommentCount)
	assert.Equal(t, MessageNoEngagement, res.Message)
	assert.Empty(t, res.Errors)
	assert.False(t, res.DemoMode)
}

func TestExtract_DemoMode(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, WithDemoMode(true))

	res, err := svc.Extract(context.Background(), testPostURL)
	require.NoError(t, err)

	assert.True(t, res.DemoMode)
	assert.Equal(t, MessageDemo, res.Message)
	assert.Len(t, res.Profiles, 8)
	assert.Equal(t, 8, res.TotalCount)
	assert.Equal(t, 5, res.ReactionCount)
	assert.Equal(t, 3, res.CommentCount)
}

func TestExtract_NoIdentifierSkipsFetch(t *testing.T) {
	f := &fakeFetcher{reactions: `{"data":[{"profile_url":"x"}]}`}
	svc := newTestService(f)

	res, err := svc.Extract(context.Background(), "https://www.linkedin.com/pulse/why-go-wins-jane-doe")
	require.NoError(t, err)

	assert.Empty(t, f.calls)
	assert.Empty(t, res.ActivityID)
	assert.Equal(t, []string{MessageNoIdentifier}, res.Errors)
	assert.Equal(t, MessageNoEngagement, res.Message)
}

func TestDemoProfiles_AreCanonical(t *testing.T) {
	for _, p := range DemoProfiles() {
		assert.Contains(t, p.ProfileURL, "https://www.linkedin.com/in/")
		switch p.EngagementType {
		case domain.EngagementReaction:
			assert.NotEmpty(t, p.ReactionType)
			assert.Empty(t, p.CommentText)
		case domain.EngagementComment:
			assert.NotEmpty(t, p.CommentText)
			assert.Empty(t, p.ReactionType)
		default:
			t.Fatalf("unexpected engagement type %q", p.EngagementType)
		}
	}
}
