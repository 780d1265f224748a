package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"postreach/internal/domain"
)

// DefaultTTL applies when NewBadgerStore is given a non-positive TTL.
const DefaultTTL = 24 * time.Hour

// BadgerStore implements SessionStore using BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
	log logrus.FieldLogger
	now func() time.Time
}

// NewBadgerStore opens the database at dbPath. Stored results expire after ttl.
func NewBadgerStore(dbPath string, ttl time.Duration, logger logrus.FieldLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &BadgerStore{
		db:  db,
		ttl: ttl,
		log: logger.WithField("component", "session_store"),
		now: time.Now,
	}, nil
}

// Close closes the BadgerDB database connection.
func (s *BadgerStore) Close() error {
	s.log.Info("Closing BadgerDB...")
	if err := s.db.Close(); err != nil {
		s.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	s.log.Info("BadgerDB closed.")
	return nil
}

// postKey identifies a post inside a chat: the activity ID when known,
// otherwise the lowercased URL.
func postKey(res domain.ExtractionResult) string {
	if res.ActivityID != "" {
		return res.ActivityID
	}
	return strings.ToLower(strings.TrimRight(res.PostURL, "/"))
}

// Format: chat:{chatID}:result:{postKey}
func resultKey(chatID int64, post string) []byte {
	return []byte(fmt.Sprintf("chat:%d:result:%s", chatID, post))
}

// Format: chat:{chatID}:result:
func chatPrefix(chatID int64) []byte {
	return []byte(fmt.Sprintf("chat:%d:result:", chatID))
}

// SaveResult stores or replaces a result for a chat.
func (s *BadgerStore) SaveResult(ctx context.Context, chatID int64, result domain.ExtractionResult) error {
	log := s.log.WithFields(logrus.Fields{
		"chat_id":  chatID,
		"post_url": result.PostURL,
	})

	if result.ExtractedAt.IsZero() {
		result.ExtractedAt = s.now()
	}

	val, err := json.Marshal(result)
	if err != nil {
		log.WithError(err).Error("Failed to marshal result")
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	key := resultKey(chatID, postKey(result))
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, val).WithTTL(s.ttl))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save result to BadgerDB")
		return fmt.Errorf("failed to save result: %w", err)
	}

	log.WithField("profiles", result.TotalCount).Debug("Result saved")
	return nil
}

// ResultsByChat retrieves all live results for a chat, newest first.
func (s *BadgerStore) ResultsByChat(ctx context.Context, chatID int64) ([]domain.ExtractionResult, error) {
	log := s.log.WithField("chat_id", chatID)

	var results []domain.ExtractionResult
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := chatPrefix(chatID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var res domain.ExtractionResult
				if err := json.Unmarshal(val, &res); err != nil {
					return fmt.Errorf("failed to unmarshal result for key %s: %w", item.Key(), err)
				}
				results = append(results, res)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to retrieve results from BadgerDB")
		return nil, fmt.Errorf("failed to get results for chat %d: %w", chatID, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ExtractedAt.After(results[j].ExtractedAt)
	})

	log.WithField("result_count", len(results)).Debug("Results retrieved")
	return results, nil
}

// LatestResult returns the newest result for a chat or ErrNoResults.
func (s *BadgerStore) LatestResult(ctx context.Context, chatID int64) (domain.ExtractionResult, error) {
	results, err := s.ResultsByChat(ctx, chatID)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	if len(results) == 0 {
		return domain.ExtractionResult{}, ErrNoResults
	}
	return results[0], nil
}

// DeleteResults removes every result stored for a chat.
func (s *BadgerStore) DeleteResults(ctx context.Context, chatID int64) (int, error) {
	log := s.log.WithField("chat_id", chatID)

	var deleted int
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var keys [][]byte
		prefix := chatPrefix(chatID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		deleted = len(keys)
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to delete results from BadgerDB")
		return 0, fmt.Errorf("failed to delete results for chat %d: %w", chatID, err)
	}

	log.WithField("deleted", deleted).Info("Results deleted")
	return deleted, nil
}

// RunGC reclaims value log space every interval until ctx is cancelled.
func (s *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := s.db.RunValueLogGC(0.7)
			switch {
			case err == nil:
				s.log.Debug("BadgerDB GC completed")
			case errors.Is(err, badger.ErrNoRewrite):
				s.log.Debug("BadgerDB GC: no rewrite needed")
			case errors.Is(err, badger.ErrDBClosed):
				return
			default:
				s.log.WithError(err).Warn("BadgerDB GC failed")
			}
		case <-ctx.Done():
			s.log.Debug("Stopping BadgerDB GC routine")
			return
		}
	}
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
