package auth

import (
	"context"
	"testing"

	"github.com/picfeed/picfeed/models"
)

type fakeSessions struct {
	sessions map[string]Session
}

func (f *fakeSessions) Get(_ context.Context, token string) (Session, bool, error) {
	sess, ok := f.sessions[token]
	return sess, ok, nil
}

type fakeUserSource struct {
	users map[int]*models.User
	reads int
}

func (f *fakeUserSource) ByID(_ context.Context, id int) (*models.User, error) {
	f.reads++
	return f.users[id], nil
}

func newTestResolver() (*Resolver, *fakeSessions, *fakeUserSource) {
	sessions := &fakeSessions{sessions: map[string]Session{}}
	users := &fakeUserSource{users: map[int]*models.User{}}
	return NewResolver(sessions, users), sessions, users
}

func TestUserFromTokenEmpty(t *testing.T) {
	r, _, users := newTestResolver()
	user, sess, err := r.UserFromToken(context.Background(), "")
	if err != nil || user != nil || sess != nil {
		t.Errorf("UserFromToken(\"\") = (%v, %v, %v), want logged out", user, sess, err)
	}
	if users.reads != 0 {
		t.Errorf("user store read %d times for empty token, want 0", users.reads)
	}
}

func TestUserFromTokenUnknown(t *testing.T) {
	r, _, _ := newTestResolver()
	user, sess, err := r.UserFromToken(context.Background(), "no-such-token")
	if err != nil || user != nil || sess != nil {
		t.Errorf("UserFromToken(unknown) = (%v, %v, %v), want logged out", user, sess, err)
	}
}

func TestUserFromTokenVanishedUser(t *testing.T) {
	// A valid session whose user was hard-deleted is logged out, not an error.
	r, sessions, _ := newTestResolver()
	sessions.sessions["tok"] = Session{UserID: 42, CSRFToken: "c"}

	user, sess, err := r.UserFromToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("UserFromToken() error = %v", err)
	}
	if user != nil || sess != nil {
		t.Errorf("UserFromToken(vanished user) = (%v, %v), want logged out", user, sess)
	}
}

func TestUserFromTokenResolvesFreshRow(t *testing.T) {
	r, sessions, users := newTestResolver()
	sessions.sessions["tok"] = Session{UserID: 7, CSRFToken: "csrf7"}
	users.users[7] = &models.User{ID: 7, AccountName: "alice"}

	user, sess, err := r.UserFromToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("UserFromToken() error = %v", err)
	}
	if user == nil || user.ID != 7 {
		t.Fatalf("UserFromToken() user = %v, want id 7", user)
	}
	if sess == nil || sess.CSRFToken != "csrf7" {
		t.Errorf("UserFromToken() session = %v, want csrf7", sess)
	}

	// The row is re-read every time, so a ban is visible immediately.
	users.users[7].DelFlg = 1
	user, _, err = r.UserFromToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("UserFromToken() error = %v", err)
	}
	if user == nil || !user.Deleted() {
		t.Errorf("UserFromToken() after ban = %v, want del_flg set", user)
	}
	if users.reads != 2 {
		t.Errorf("user store reads = %d, want 2 (one per resolution)", users.reads)
	}
}
