package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/picfeed/picfeed/auth"
	"github.com/picfeed/picfeed/middleware"
	"github.com/picfeed/picfeed/utils"
)

// AuthController handles registration, login, and session lifecycle.
type AuthController struct {
	svc      *auth.Service
	sessions *auth.SessionStore
}

// NewAuthController creates an AuthController.
func NewAuthController(svc *auth.Service, sessions *auth.SessionStore) *AuthController {
	return &AuthController{svc: svc, sessions: sessions}
}

type credentialsRequest struct {
	AccountName string `json:"account_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Register creates an account and logs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	req.AccountName = strings.TrimSpace(req.AccountName)

	user, err := a.svc.Register(ctx.Request.Context(), req.AccountName, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidAccountName), errors.Is(err, auth.ErrInvalidPassword):
		// Which half failed is logged, not told to the user.
		utils.Sugar.Infof("registration rejected: %v", err)
		utils.Error(ctx, http.StatusBadRequest, 40002,
			"account name must be at least 3 characters and password at least 6")
		return
	case errors.Is(err, auth.ErrAccountTaken):
		utils.Error(ctx, http.StatusConflict, 40901, "account name already in use")
		return
	case err != nil:
		utils.Sugar.Errorf("registration failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to register")
		return
	}

	sess, ok := a.startSession(ctx, user.ID)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"user": user, "csrf_token": sess.CSRFToken})
}

// Login authenticates an account. Unknown account and wrong password get the
// same generic rejection.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.svc.TryLogin(ctx.Request.Context(), strings.TrimSpace(req.AccountName), req.Password)
	if errors.Is(err, auth.ErrAuthentication) {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "invalid account name or password")
		return
	}
	if err != nil {
		// Includes digest failures, which are fatal for the request rather
		// than degrading into a wrong hash.
		utils.Sugar.Errorf("login failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to log in")
		return
	}

	sess, ok := a.startSession(ctx, user.ID)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"user": user, "csrf_token": sess.CSRFToken})
}

// Logout destroys the current session.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, err := ctx.Cookie(middleware.SessionCookie)
	if err == nil && token != "" {
		if err := a.sessions.Destroy(ctx.Request.Context(), token); err != nil {
			utils.Sugar.Warnf("session destroy failed: %v", err)
		}
	}
	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the freshly resolved current user.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.LoginRequired(ctx)
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func (a *AuthController) startSession(ctx *gin.Context, userID int) (auth.Session, bool) {
	token, sess, err := a.sessions.Create(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorf("session create failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create session")
		return auth.Session{}, false
	}
	ctx.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)
	return sess, true
}
