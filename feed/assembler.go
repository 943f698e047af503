package feed

import (
	"context"

	"gorm.io/gorm"

	"github.com/picfeed/picfeed/models"
)

// CommentView is a comment with its author resolved. The author may itself be
// soft deleted; comment authors are rendered regardless, only top-level post
// authorship is filtered.
type CommentView struct {
	models.Comment
	User models.User `json:"user"`
}

// PostView is the hydrated presentation form of a post: the row plus its
// author, comment count, and the selected comments in oldest-first order.
// Built fresh per request, never cached.
type PostView struct {
	models.Post
	User         models.User   `json:"user"`
	CommentCount int           `json:"comment_count"`
	Comments     []CommentView `json:"comments"`
}

// Options control a single assembly run.
type Options struct {
	// AllComments attaches every comment instead of the TopCommentsPerPost
	// most recent (detail view vs. list views).
	AllComments bool
	// Limit caps the output length; 0 means no cap (author and detail views
	// return everything they were given).
	Limit int
}

// Assembler composes repository rows, the batched lookups, and the comment
// selection policy into hydrated post views.
type Assembler struct {
	store store
}

// NewAssembler builds an assembler over a database handle.
func NewAssembler(db *gorm.DB) *Assembler {
	return &Assembler{store: &sqlStore{db: db}}
}

// MakePosts hydrates raw post rows, already ordered newest first, into views.
//
// Posts whose author is missing or soft deleted are dropped entirely and do
// not count toward the limit; the cap is applied after filtering. Comments
// are fetched newest first and attached oldest first. Order among kept posts
// is the input order.
func (a *Assembler) MakePosts(ctx context.Context, rows []models.Post, opts Options) ([]PostView, error) {
	if len(rows) == 0 {
		return []PostView{}, nil
	}

	batch, err := loadBatch(ctx, a.store, rows, opts.AllComments)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(rows))
	for _, post := range rows {
		author, ok := batch.authors[post.UserID]
		if !ok || author.Deleted() {
			continue
		}

		group := batch.commentsByPost[post.ID]
		comments := make([]CommentView, 0, len(group))
		for _, c := range group {
			comments = append(comments, CommentView{
				Comment: c,
				User:    batch.commentAuthors[c.UserID],
			})
		}
		// Fetch order is newest first; presentation replays chronologically.
		for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
			comments[i], comments[j] = comments[j], comments[i]
		}

		views = append(views, PostView{
			Post:         post,
			User:         author,
			CommentCount: batch.commentCounts[post.ID],
			Comments:     comments,
		})
		if opts.Limit > 0 && len(views) >= opts.Limit {
			break
		}
	}
	return views, nil
}
