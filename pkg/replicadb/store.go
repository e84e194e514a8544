package replicadb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

// Store provides read access to review history on a wiki replica.
type Store interface {
	// FindReviewedByContentHash groups the given revisions by page and
	// content hash and returns the groups that have at least one
	// flagged-revisions review.
	FindReviewedByContentHash(ctx context.Context, revIDs []int64) ([]models.ReviewedContent, error)
	// WasUserBlockedAfter reports whether the user has a block log entry
	// at or after the given time.
	WasUserBlockedAfter(ctx context.Context, username string, since time.Time) (bool, error)
}

type store struct {
	db     *DB
	logger *zap.Logger
}

// NewStore creates a replica-backed Store.
func NewStore(db *DB, logger *zap.Logger) Store {
	return &store{db: db, logger: logger.Named("replicadb")}
}

var _ Store = (*store)(nil)

func (s *store) FindReviewedByContentHash(ctx context.Context, revIDs []int64) ([]models.ReviewedContent, error) {
	if len(revIDs) == 0 {
		return nil, nil
	}

	sql := `
		SELECT
			MAX(rev_id) AS max_reviewable_rev_id,
			rev_page,
			content_sha1,
			MAX(fr_rev_id) AS max_reviewed_id
		FROM revision
			LEFT JOIN flaggedrevs ON rev_id = fr_rev_id
			JOIN slots ON slot_revision_id = rev_id
			JOIN content ON slot_content_id = content_id
		WHERE rev_id = ANY($1)
		GROUP BY rev_page, content_sha1`

	rows, err := s.db.Query(ctx, sql, revIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviewed revisions: %w", err)
	}
	defer rows.Close()

	var reviewed []models.ReviewedContent
	for rows.Next() {
		var (
			maxReviewable int64
			pageID        int64
			sha1          string
			maxReviewed   *int64
		)
		if err := rows.Scan(&maxReviewable, &pageID, &sha1, &maxReviewed); err != nil {
			return nil, fmt.Errorf("failed to scan reviewed revision: %w", err)
		}
		if maxReviewed == nil {
			continue
		}
		reviewed = append(reviewed, models.ReviewedContent{
			SHA1:            sha1,
			PageID:          pageID,
			MaxReviewedID:   *maxReviewed,
			MaxReviewableID: maxReviewable,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviewed revisions: %w", err)
	}
	return reviewed, nil
}

func (s *store) WasUserBlockedAfter(ctx context.Context, username string, since time.Time) (bool, error) {
	sql := `
		SELECT EXISTS (
			SELECT 1
			FROM logging
			WHERE log_type = 'block'
				AND log_action = 'block'
				AND log_namespace = 2
				AND log_title = $1
				AND log_timestamp >= $2
		)`

	var blocked bool
	err := s.db.QueryRow(ctx, sql, logTitle(username), mediaWikiTimestamp(since)).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to query block log for %q: %w", username, err)
	}
	return blocked, nil
}

// logTitle converts a username to the underscored page-title form used
// in the logging table.
func logTitle(username string) string {
	return strings.ReplaceAll(username, " ", "_")
}

// mediaWikiTimestamp renders a time in the yyyymmddhhmmss form the
// MediaWiki schema stores.
func mediaWikiTimestamp(t time.Time) string {
	return t.UTC().Format("20060102150405")
}
