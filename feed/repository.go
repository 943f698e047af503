package feed

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/picfeed/picfeed/models"
)

// Base columns for list selections. The image blob is deliberately excluded;
// it is only read when serving /image/:id.
const postColumns = "id, user_id, body, mime, created_at"

// Repository performs the raw, unfiltered post row selections. It never joins
// and never filters by author state; hydration fan-out and deleted-author
// exclusion belong to the assembler. All selections are ordered by
// (created_at DESC, id DESC) so pagination cursors see a total order.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps a database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FeedWindow returns the newest rows for the front feed, oversized relative
// to the page size so deleted-author drops can be absorbed before the page
// cap applies.
func (r *Repository) FeedWindow(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postColumns).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByUser returns every post owned by the user, newest first.
func (r *Repository) ByUser(ctx context.Context, userID int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// OlderThan returns posts created at or before the cursor, newest first, for
// "load older" pagination.
func (r *Repository) OlderThan(ctx context.Context, cursor time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postColumns).
		Where("created_at <= ?", cursor).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByID returns the single post row for an id including the image payload, or
// nil when absent.
func (r *Repository) ByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UserStats are the counters shown on an author page.
type UserStats struct {
	PostCount      int `json:"post_count"`
	CommentCount   int `json:"comment_count"`
	CommentedCount int `json:"commented_count"`
}

// StatsForUser computes the author-page counters in a single round-trip.
func (r *Repository) StatsForUser(ctx context.Context, userID int) (UserStats, error) {
	var stats UserStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM posts WHERE user_id = ?) AS post_count,
			(SELECT COUNT(*) FROM comments WHERE user_id = ?) AS comment_count,
			(SELECT COUNT(*) FROM comments WHERE post_id IN
				(SELECT id FROM posts WHERE user_id = ?)) AS commented_count`,
		userID, userID, userID).Scan(&stats).Error
	if err != nil {
		return UserStats{}, err
	}
	return stats, nil
}
