package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/picfeed/picfeed/auth"
	"github.com/picfeed/picfeed/utils"
)

// AdminController exposes the ban surface and the benchmark reset hook.
type AdminController struct {
	db    *gorm.DB
	users *auth.Users
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB, users *auth.Users) *AdminController {
	return &AdminController{db: db, users: users}
}

// BanCandidates lists ordinary, non-deleted users, newest first.
func (a *AdminController) BanCandidates(ctx *gin.Context) {
	users, err := a.users.OrdinaryActive(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("ban candidate listing failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list users")
		return
	}
	utils.Success(ctx, gin.H{"users": users})
}

// Ban sets the soft-delete flag on the given user ids. Their historical posts
// disappear from every feed surface on the next render.
func (a *AdminController) Ban(ctx *gin.Context) {
	var req struct {
		UIDs []int `json:"uids" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	uids := utils.UniqueInt(req.UIDs)
	if err := a.users.MarkDeleted(ctx.Request.Context(), uids); err != nil {
		utils.Sugar.Errorf("ban failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to ban users")
		return
	}
	utils.Success(ctx, gin.H{"banned": uids})
}

// Initialize trims the tables back to the seed data set and recomputes the
// deleted-flag pattern. Benchmark harness hook, not a user-facing feature.
func (a *AdminController) Initialize(ctx *gin.Context) {
	stmts := []string{
		"DELETE FROM users WHERE id > 1000",
		"DELETE FROM posts WHERE id > 10000",
		"DELETE FROM comments WHERE id > 100000",
		"UPDATE users SET del_flg = 0",
		"UPDATE users SET del_flg = 1 WHERE id % 50 = 0",
	}
	for _, stmt := range stmts {
		if err := a.db.WithContext(ctx.Request.Context()).Exec(stmt).Error; err != nil {
			utils.Sugar.Errorf("initialize statement failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50042, "initialize failed")
			return
		}
	}
	utils.Success(ctx, gin.H{"message": "initialized"})
}
