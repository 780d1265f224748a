package storage

import (
	"context"
	"errors"

	"postreach/internal/domain"
)

// ErrNoResults is returned by LatestResult when a chat has nothing stored.
var ErrNoResults = errors.New("storage: no results for chat")

// SessionStore keeps recent extraction results per chat so follow-up bot
// commands can export them without calling the upstream API again.
type SessionStore interface {
	// SaveResult stores a result for a chat. A second result for the same
	// post replaces the first.
	SaveResult(ctx context.Context, chatID int64, result domain.ExtractionResult) error

	// ResultsByChat returns every live result for a chat, newest first.
	ResultsByChat(ctx context.Context, chatID int64) ([]domain.ExtractionResult, error)

	// LatestResult returns the most recent result for a chat.
	LatestResult(ctx context.Context, chatID int64) (domain.ExtractionResult, error)

	// DeleteResults removes all results for a chat and reports how many were removed.
	DeleteResults(ctx context.Context, chatID int64) (int, error)

	Close() error
}
