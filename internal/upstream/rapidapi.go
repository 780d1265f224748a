package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultHost is the RapidAPI host serving LinkedIn post engagement.
	DefaultHost = "fresh-linkedin-profile-data.p.rapidapi.com"

	// DefaultTimeout applies to each endpoint call separately.
	DefaultTimeout = 30 * time.Second

	reactionsPath = "/get-post-reactions"
	commentsPath  = "/get-post-comments"

	maxErrorBody = 512
)

// Config holds the static settings of the RapidAPI client.
type Config struct {
	Host   string
	APIKey string

	// BaseURL overrides the scheme and host derived from Host. Used by tests.
	BaseURL string

	Timeout time.Duration
}

// RapidAPIClient implements Fetcher against the RapidAPI LinkedIn endpoints.
type RapidAPIClient struct {
	cfg        Config
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewRapidAPIClient creates a client, filling in defaults for empty settings.
func NewRapidAPIClient(cfg Config, logger logrus.FieldLogger) *RapidAPIClient {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &RapidAPIClient{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        logger.WithField("component", "upstream"),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *RapidAPIClient) WithHTTPClient(hc *http.Client) *RapidAPIClient {
	c.httpClient = hc
	return c
}

// FetchReactions calls the post reactions endpoint.
func (c *RapidAPIClient) FetchReactions(ctx context.Context, activityID string) (any, error) {
	return c.fetch(ctx, SourceReactions, reactionsPath, activityID)
}

// FetchComments calls the post comments endpoint.
func (c *RapidAPIClient) FetchComments(ctx context.Context, activityID string) (any, error) {
	return c.fetch(ctx, SourceComments, commentsPath, activityID)
}

func (c *RapidAPIClient) fetch(ctx context.Context, source Source, path, activityID string) (any, error) {
	log := c.log.WithFields(logrus.Fields{
		"source":      source,
		"activity_id": activityID,
	})

	if activityID == "" {
		return nil, &FetchError{Source: source, Err: ErrMissingActivityID}
	}

	// Deadline is per endpoint call, not per extraction.
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + path + "?" + url.Values{"urn": {activityID}}.Encode()
	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("x-rapidapi-host", c.cfg.Host)
	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	log.Info("Fetching engagement from upstream")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			log.WithError(err).Warn("Upstream request timed out")
			return nil, &FetchError{Source: source, Err: fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)}
		}
		log.WithError(err).Error("Upstream request failed")
		return nil, &FetchError{Source: source, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.WithField("body", string(body)).Warn("Upstream returned non-success status")
		return nil, &FetchError{
			Source: source,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: %s", ErrUnexpectedStatus, strings.TrimSpace(string(body))),
		}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WithError(err).Error("Failed to decode upstream response")
		return nil, &FetchError{Source: source, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if m, ok := payload.(map[string]any); ok {
		log = log.WithFields(logrus.Fields{"message": m["message"], "total": m["total"]})
	}
	if !hasData(payload) {
		log.Warn("Upstream response carried no data")
		return nil, nil
	}

	log.Info("Upstream response received")
	return payload, nil
}

// hasData reports whether a decoded response carries a success indicator:
// message "ok", a non-empty data field, or a non-empty top-level list.
func hasData(payload any) bool {
	switch v := payload.(type) {
	case map[string]any:
		if msg, _ := v["message"].(string); msg == "ok" {
			return true
		}
		return truthy(v["data"])
	case []any:
		return len(v) > 0
	default:
		return false
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	default:
		return true
	}
}
