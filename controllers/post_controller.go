package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/picfeed/picfeed/auth"
	"github.com/picfeed/picfeed/feed"
	"github.com/picfeed/picfeed/middleware"
	"github.com/picfeed/picfeed/models"
	"github.com/picfeed/picfeed/utils"
)

// Cursor layouts accepted for max_created_at, most specific first.
var cursorLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// PostController serves the feed surfaces: index, cursor pagination, author
// pages, detail views, image payloads, and post/comment creation.
type PostController struct {
	db        *gorm.DB
	repo      *feed.Repository
	assembler *feed.Assembler
	users     *auth.Users

	pageSize       int
	prefetchFactor int
	uploadLimit    int64
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB, users *auth.Users, pageSize, prefetchFactor, uploadLimitMB int) *PostController {
	return &PostController{
		db:             db,
		repo:           feed.NewRepository(db),
		assembler:      feed.NewAssembler(db),
		users:          users,
		pageSize:       pageSize,
		prefetchFactor: prefetchFactor,
		uploadLimit:    int64(uploadLimitMB) * 1024 * 1024,
	}
}

// Index renders the front feed: newest posts first, capped at the page size
// after deleted authors are dropped. An optional max_created_at cursor loads
// older pages.
func (p *PostController) Index(ctx *gin.Context) {
	var rows []models.Post
	var err error

	if raw := strings.TrimSpace(ctx.Query("max_created_at")); raw != "" {
		cursor, perr := parseCursor(raw)
		if perr != nil {
			utils.Error(ctx, http.StatusBadRequest, 40010, "invalid max_created_at cursor")
			return
		}
		rows, err = p.repo.OlderThan(ctx.Request.Context(), cursor)
	} else {
		// Oversized window so deleted-author drops don't underfill the page.
		rows, err = p.repo.FeedWindow(ctx.Request.Context(), p.pageSize*p.prefetchFactor)
	}
	if err != nil {
		utils.Sugar.Errorf("feed selection failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load feed")
		return
	}

	views, err := p.assembler.MakePosts(ctx.Request.Context(), rows, feed.Options{Limit: p.pageSize})
	if err != nil {
		utils.Sugar.Errorf("feed assembly failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to assemble feed")
		return
	}
	utils.Success(ctx, gin.H{"posts": views})
}

// Show renders the single-post detail view with every comment attached. A
// post whose author was banned is a 404, same as a missing row.
func (p *PostController) Show(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid post id")
		return
	}

	post, err := p.repo.ByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Sugar.Errorf("post lookup failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}
	if post == nil {
		utils.NotFound(ctx, 40401, "post not found")
		return
	}

	views, err := p.assembler.MakePosts(ctx.Request.Context(),
		[]models.Post{*post}, feed.Options{AllComments: true})
	if err != nil {
		utils.Sugar.Errorf("post assembly failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to assemble post")
		return
	}
	if len(views) == 0 {
		utils.NotFound(ctx, 40401, "post not found")
		return
	}
	utils.Success(ctx, gin.H{"post": views[0]})
}

// UserPosts renders an author page: the user's posts hydrated and uncapped,
// plus the profile counters. Unknown or deleted accounts are a 404.
func (p *PostController) UserPosts(ctx *gin.Context) {
	accountName := strings.TrimSpace(ctx.Param("account_name"))
	if accountName == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "missing account name")
		return
	}

	user, err := p.users.ActiveByAccountName(ctx.Request.Context(), accountName)
	if err != nil {
		utils.Sugar.Errorf("user lookup failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load user")
		return
	}
	if user == nil {
		utils.NotFound(ctx, 40402, "user not found")
		return
	}

	rows, err := p.repo.ByUser(ctx.Request.Context(), user.ID)
	if err != nil {
		utils.Sugar.Errorf("user posts selection failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load user posts")
		return
	}
	views, err := p.assembler.MakePosts(ctx.Request.Context(), rows, feed.Options{})
	if err != nil {
		utils.Sugar.Errorf("user posts assembly failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to assemble user posts")
		return
	}
	stats, err := p.repo.StatsForUser(ctx.Request.Context(), user.ID)
	if err != nil {
		utils.Sugar.Errorf("user stats failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load user stats")
		return
	}

	utils.Success(ctx, gin.H{
		"user":  user,
		"posts": views,
		"stats": stats,
	})
}

// Create accepts a multipart image upload with a caption and stores the post.
func (p *PostController) Create(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.LoginRequired(ctx)
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "an image is required")
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	if !models.ValidMime(mime) {
		utils.Error(ctx, http.StatusBadRequest, 40014, "only jpeg, png and gif images are accepted")
		return
	}

	// Read through a limited reader so an oversized body is caught without
	// buffering all of it.
	data, err := io.ReadAll(io.LimitReader(file, p.uploadLimit+1))
	if err != nil {
		utils.Sugar.Errorf("upload read failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to read upload")
		return
	}
	if int64(len(data)) > p.uploadLimit {
		utils.Error(ctx, http.StatusBadRequest, 40015, "image exceeds the size limit")
		return
	}

	post := models.Post{
		UserID:  user.ID,
		Mime:    mime,
		Imgdata: data,
		Body:    utils.Sanitize(ctx.PostForm("body")),
	}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&post).Error; err != nil {
		utils.Sugar.Errorf("post create failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to create post")
		return
	}
	utils.Success(ctx, gin.H{"post_id": post.ID})
}

// Image serves the stored binary payload when the requested extension matches
// the stored MIME type.
func (p *PostController) Image(ctx *gin.Context) {
	name := ctx.Param("filename")
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		utils.NotFound(ctx, 40403, "image not found")
		return
	}
	id, err := strconv.Atoi(name[:dot])
	if err != nil || id <= 0 {
		utils.NotFound(ctx, 40403, "image not found")
		return
	}

	post, err := p.repo.ByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Sugar.Errorf("image lookup failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load image")
		return
	}
	if post == nil || !post.MatchesExt(name[dot+1:]) {
		utils.NotFound(ctx, 40403, "image not found")
		return
	}
	ctx.Data(http.StatusOK, post.Mime, post.Imgdata)
}

// CreateComment stores a comment on an existing post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.LoginRequired(ctx)
		return
	}

	var req struct {
		PostID  int    `json:"post_id" binding:"required"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid request payload")
		return
	}

	body := utils.Sanitize(req.Comment)
	if strings.TrimSpace(body) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40017, "comment cannot be empty")
		return
	}

	post, err := p.repo.ByID(ctx.Request.Context(), req.PostID)
	if err != nil {
		utils.Sugar.Errorf("comment target lookup failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load post")
		return
	}
	if post == nil {
		utils.NotFound(ctx, 40401, "post not found")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Comment: body,
	}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&comment).Error; err != nil {
		utils.Sugar.Errorf("comment create failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

func parseCursor(raw string) (time.Time, error) {
	for _, layout := range cursorLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable cursor %q", raw)
}
