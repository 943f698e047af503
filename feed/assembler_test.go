package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/picfeed/picfeed/models"
)

var testBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeStore implements store in memory and counts round-trips. Comment groups
// are held newest first, mirroring the SQL fetch order.
type fakeStore struct {
	users          map[int]models.User
	commentsByPost map[int][]models.Comment
	roundTrips     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:          map[int]models.User{},
		commentsByPost: map[int][]models.Comment{},
	}
}

func (f *fakeStore) usersByID(_ context.Context, ids []int) ([]models.User, error) {
	f.roundTrips++
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) commentCounts(_ context.Context, postIDs []int) (map[int]int, error) {
	f.roundTrips++
	counts := map[int]int{}
	for _, id := range postIDs {
		if n := len(f.commentsByPost[id]); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (f *fakeStore) commentsForPosts(_ context.Context, postIDs []int, allComments bool) ([]models.Comment, error) {
	f.roundTrips++
	var out []models.Comment
	for _, id := range postIDs {
		group := f.commentsByPost[id]
		if !allComments && len(group) > TopCommentsPerPost {
			group = group[:TopCommentsPerPost]
		}
		out = append(out, group...)
	}
	return out, nil
}

func (f *fakeStore) addUser(id int, deleted bool) {
	delFlg := 0
	if deleted {
		delFlg = 1
	}
	f.users[id] = models.User{ID: id, AccountName: fmt.Sprintf("user%d", id), DelFlg: delFlg}
}

// addComments attaches n comments by authorID to postID, newest first.
func (f *fakeStore) addComments(postID, authorID, n int) {
	for i := 0; i < n; i++ {
		f.commentsByPost[postID] = append(f.commentsByPost[postID], models.Comment{
			ID:        postID*1000 + n - i,
			PostID:    postID,
			UserID:    authorID,
			Comment:   fmt.Sprintf("comment %d on %d", n-i, postID),
			CreatedAt: testBase.Add(-time.Duration(i) * time.Minute),
		})
	}
}

func newTestAssembler(f *fakeStore) *Assembler {
	return &Assembler{store: f}
}

// feedRows builds n post rows newest first, authored by sequential user ids
// starting at firstAuthor.
func feedRows(n, firstAuthor int) []models.Post {
	rows := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Post{
			ID:        1000 - i,
			UserID:    firstAuthor + i,
			Mime:      models.MimeJPEG,
			Body:      fmt.Sprintf("post %d", 1000-i),
			CreatedAt: testBase.Add(-time.Duration(i) * time.Hour),
		})
	}
	return rows
}

func TestMakePostsEmptyInput(t *testing.T) {
	f := newFakeStore()
	views, err := newTestAssembler(f).MakePosts(context.Background(), nil, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if len(views) != 0 {
		t.Errorf("MakePosts(empty) returned %d views, want 0", len(views))
	}
	if f.roundTrips != 0 {
		t.Errorf("empty input caused %d round-trips, want 0", f.roundTrips)
	}
}

func TestMakePostsRoundTripsConstant(t *testing.T) {
	for _, n := range []int{1, 5, 50} {
		f := newFakeStore()
		rows := feedRows(n, 100)
		for _, row := range rows {
			f.addUser(row.UserID, false)
			f.addComments(row.ID, row.UserID, 2)
		}

		_, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
		if err != nil {
			t.Fatalf("MakePosts(n=%d) error = %v", n, err)
		}
		if f.roundTrips != 4 {
			t.Errorf("MakePosts(n=%d) issued %d round-trips, want 4", n, f.roundTrips)
		}
	}
}

func TestMakePostsSkipsCommentAuthorLookupWhenNoComments(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(10, 100)
	for _, row := range rows {
		f.addUser(row.UserID, false)
	}

	_, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if f.roundTrips != 3 {
		t.Errorf("no-comment render issued %d round-trips, want 3", f.roundTrips)
	}
}

func TestMakePostsDropsDeletedAuthors(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(25, 100)
	for i, row := range rows {
		// Authors of the 3rd and 8th newest posts are banned.
		f.addUser(row.UserID, i == 2 || i == 7)
	}

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if len(views) != 20 {
		t.Fatalf("MakePosts() returned %d views, want full page of 20", len(views))
	}
	for _, v := range views {
		if v.User.Deleted() {
			t.Errorf("view for post %d has a deleted author", v.ID)
		}
	}
	// The cap is applied after filtering, so rows beyond the first 20 input
	// positions backfill the dropped ones.
	wantLast := rows[21].ID
	if got := views[len(views)-1].ID; got != wantLast {
		t.Errorf("last view id = %d, want backfilled %d", got, wantLast)
	}
}

func TestMakePostsDropsMissingAuthors(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(3, 100)
	f.addUser(rows[0].UserID, false)
	f.addUser(rows[2].UserID, false)
	// rows[1]'s author is absent from the store entirely.

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("MakePosts() returned %d views, want 2", len(views))
	}
	if views[0].ID != rows[0].ID || views[1].ID != rows[2].ID {
		t.Errorf("kept views = (%d, %d), want (%d, %d)",
			views[0].ID, views[1].ID, rows[0].ID, rows[2].ID)
	}
}

func TestMakePostsPreservesInputOrder(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(6, 100)
	for _, row := range rows {
		f.addUser(row.UserID, false)
	}

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	for i, v := range views {
		if v.ID != rows[i].ID {
			t.Errorf("view[%d].ID = %d, want input order %d", i, v.ID, rows[i].ID)
		}
	}
}

func TestMakePostsTopNComments(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(1, 100)
	f.addUser(100, false)
	f.addUser(200, false)
	f.addComments(rows[0].ID, 200, 5)

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	v := views[0]
	if v.CommentCount != 5 {
		t.Errorf("CommentCount = %d, want 5", v.CommentCount)
	}
	if len(v.Comments) != 3 {
		t.Fatalf("attached comments = %d, want min(3, 5) = 3", len(v.Comments))
	}
	assertOldestFirst(t, v.Comments)
	// The three attached must be the three most recent.
	for _, c := range v.Comments {
		if c.CreatedAt.Before(testBase.Add(-2 * time.Minute)) {
			t.Errorf("comment %d is older than the top-3 window", c.Comment.ID)
		}
	}
}

func TestMakePostsAllComments(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(1, 100)
	f.addUser(100, false)
	f.addUser(200, false)
	f.addComments(rows[0].ID, 200, 5)

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows,
		Options{AllComments: true})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	v := views[0]
	if len(v.Comments) != 5 {
		t.Fatalf("attached comments = %d, want all 5", len(v.Comments))
	}
	assertOldestFirst(t, v.Comments)
}

func TestMakePostsFewerThanTopN(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(1, 100)
	f.addUser(100, false)
	f.addUser(200, false)
	f.addComments(rows[0].ID, 200, 2)

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if got := len(views[0].Comments); got != 2 {
		t.Errorf("attached comments = %d, want min(3, 2) = 2", got)
	}
	if views[0].CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", views[0].CommentCount)
	}
}

func TestMakePostsCommentCountDefaultsToZero(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(1, 100)
	f.addUser(100, false)

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if views[0].CommentCount != 0 {
		t.Errorf("CommentCount = %d, want 0", views[0].CommentCount)
	}
	if len(views[0].Comments) != 0 {
		t.Errorf("Comments = %d, want 0", len(views[0].Comments))
	}
}

func TestMakePostsDeletedCommentAuthorStillRendered(t *testing.T) {
	// Only top-level post authorship is filtered; a comment by a banned user
	// stays attached, carrying its deleted author.
	f := newFakeStore()
	rows := feedRows(1, 100)
	f.addUser(100, false)
	f.addUser(200, true)
	f.addComments(rows[0].ID, 200, 1)

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{Limit: 20})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("MakePosts() returned %d views, want 1", len(views))
	}
	if len(views[0].Comments) != 1 {
		t.Fatalf("attached comments = %d, want 1", len(views[0].Comments))
	}
	if !views[0].Comments[0].User.Deleted() {
		t.Error("comment author should carry its del_flg, not be filtered")
	}
}

func TestMakePostsUncapped(t *testing.T) {
	f := newFakeStore()
	rows := feedRows(30, 100)
	for _, row := range rows {
		f.addUser(row.UserID, false)
	}

	views, err := newTestAssembler(f).MakePosts(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("MakePosts() error = %v", err)
	}
	if len(views) != 30 {
		t.Errorf("uncapped MakePosts() returned %d views, want 30", len(views))
	}
}

func assertOldestFirst(t *testing.T, comments []CommentView) {
	t.Helper()
	for i := 1; i < len(comments); i++ {
		if comments[i].CreatedAt.Before(comments[i-1].CreatedAt) {
			t.Errorf("comments out of order at %d: %v before %v",
				i, comments[i].CreatedAt, comments[i-1].CreatedAt)
		}
	}
}
