package upstream

import "context"

// Source names one of the two engagement endpoints.
type Source string

const (
	SourceReactions Source = "reactions"
	SourceComments  Source = "comments"
)

// Fetcher defines the interface for retrieving raw engagement payloads for a
// post activity ID.
type Fetcher interface {
	// FetchReactions returns the decoded reactions payload.
	// A nil payload with a nil error means the API answered without data.
	FetchReactions(ctx context.Context, activityID string) (any, error)

	// FetchComments returns the decoded comments payload, with the same
	// nil/nil convention as FetchReactions.
	FetchComments(ctx context.Context, activityID string) (any, error)
}
