package feed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/picfeed/picfeed/models"
)

// TopCommentsPerPost is the list-view comment window: the N most recent
// comments attached to each post.
const TopCommentsPerPost = 3

// store is the batched-query surface the hydration pipeline needs from the
// backing database. Every method is a single round-trip keyed by an id set,
// never a per-row lookup.
type store interface {
	usersByID(ctx context.Context, ids []int) ([]models.User, error)
	commentCounts(ctx context.Context, postIDs []int) (map[int]int, error)
	// commentsForPosts fetches either every comment for the post set or the
	// TopCommentsPerPost most recent per post, newest first within each post.
	commentsForPosts(ctx context.Context, postIDs []int, allComments bool) ([]models.Comment, error)
}

// batchResult holds the hydration lookups keyed for O(1) joins during
// assembly. Comment groups keep the fetch order (newest first); the assembler
// reverses them for presentation.
type batchResult struct {
	authors        map[int]models.User
	commentCounts  map[int]int
	commentsByPost map[int][]models.Comment
	commentAuthors map[int]models.User
}

// loadBatch performs the batched secondary lookups for a set of post rows: at
// most four store round-trips regardless of how many posts or comments are
// involved. The fourth (comment authors) is skipped when there are no
// comments.
func loadBatch(ctx context.Context, s store, posts []models.Post, allComments bool) (*batchResult, error) {
	postIDs := make([]int, 0, len(posts))
	authorIDs := make([]int, 0, len(posts))
	seen := make(map[int]struct{}, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	authors, err := s.usersByID(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("feed: load authors: %w", err)
	}
	counts, err := s.commentCounts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("feed: load comment counts: %w", err)
	}
	comments, err := s.commentsForPosts(ctx, postIDs, allComments)
	if err != nil {
		return nil, fmt.Errorf("feed: load comments: %w", err)
	}

	res := &batchResult{
		authors:        make(map[int]models.User, len(authors)),
		commentCounts:  counts,
		commentsByPost: make(map[int][]models.Comment),
		commentAuthors: map[int]models.User{},
	}
	for _, u := range authors {
		res.authors[u.ID] = u
	}

	commenterIDs := make([]int, 0, len(comments))
	seenCommenter := make(map[int]struct{}, len(comments))
	for _, c := range comments {
		res.commentsByPost[c.PostID] = append(res.commentsByPost[c.PostID], c)
		if _, ok := seenCommenter[c.UserID]; !ok {
			seenCommenter[c.UserID] = struct{}{}
			commenterIDs = append(commenterIDs, c.UserID)
		}
	}
	if len(commenterIDs) > 0 {
		commenters, err := s.usersByID(ctx, commenterIDs)
		if err != nil {
			return nil, fmt.Errorf("feed: load comment authors: %w", err)
		}
		for _, u := range commenters {
			res.commentAuthors[u.ID] = u
		}
	}
	return res, nil
}

// sqlStore is the gorm implementation of store.
type sqlStore struct {
	db *gorm.DB
}

func (s *sqlStore) usersByID(ctx context.Context, ids []int) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *sqlStore) commentCounts(ctx context.Context, postIDs []int) (map[int]int, error) {
	if len(postIDs) == 0 {
		return map[int]int{}, nil
	}
	var rows []struct {
		PostID int
		Count  int
	}
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

func (s *sqlStore) commentsForPosts(ctx context.Context, postIDs []int, allComments bool) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	if allComments {
		err := s.db.WithContext(ctx).
			Where("post_id IN ?", postIDs).
			Order("post_id, created_at DESC, id DESC").
			Find(&comments).Error
		if err != nil {
			return nil, err
		}
		return comments, nil
	}
	// Top-N is selected set-wide with a ranked window so the transfer stays
	// bounded instead of fetching every comment and truncating in memory.
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.* FROM comments c
		INNER JOIN (
			SELECT id, ROW_NUMBER() OVER (
				PARTITION BY post_id ORDER BY created_at DESC, id DESC
			) AS rn
			FROM comments
			WHERE post_id IN ?
		) ranked ON ranked.id = c.id
		WHERE ranked.rn <= ?
		ORDER BY c.post_id, c.created_at DESC, c.id DESC`,
		postIDs, TopCommentsPerPost).Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
