package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/middleware"
	"github.com/campusbuzz/backend/internal/pkg/helpers"
)

// PostController handles post, like and comment operations
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

var errInvalidAuthorID = errors.New("authorId must be a positive number")

func isAdmin(ctx *gin.Context) bool {
	role, _ := ctx.Get("roleType")
	roleStr, _ := role.(string)
	return roleStr == string(models.RoleAdmin)
}

// CreatePost publishes a post
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post payload"
// @Success 201 {object} dto.APIResponse{data=models.Post} "Post created"
// @Failure 400 {object} dto.ErrorResponse "Post must have content or images"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	post, err := c.postService.CreatePost(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// GetPost retrieves a post
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	post, err := c.postService.GetPost(ctx, postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// ListPosts lists the post feed
// @Summary List posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param authorId query int false "Filter by author"
// @Param q query string false "Search in content"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Posts"
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	filter := repositories.PostFilter{Search: ctx.Query("q")}
	if authorStr := ctx.Query("authorId"); authorStr != "" {
		authorID, err := strconv.ParseInt(authorStr, 10, 64)
		if err != nil || authorID <= 0 {
			middleware.HandleValidationError(ctx, errInvalidAuthorID)
			return
		}
		filter.AuthorID = &authorID
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	posts, total, err := c.postService.ListPosts(ctx, userID, filter, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      posts,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdatePost edits a post
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreatePostRequest true "Updated content"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post updated"
// @Failure 403 {object} dto.ErrorResponse "Only the author may edit"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	post, err := c.postService.UpdatePost(ctx, postID, userID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// DeletePost deletes a post
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post deleted"
// @Failure 403 {object} dto.ErrorResponse "Only the author or an admin may delete"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.DeletePost(ctx, postID, userID, isAdmin(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted"))
}

// LikePost likes a post
// @Summary Like a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post with refreshed counts"
// @Router /posts/{id}/like [post]
func (c *PostController) LikePost(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	post, err := c.postService.LikePost(ctx, postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// UnlikePost removes a like
// @Summary Unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post with refreshed counts"
// @Router /posts/{id}/like [delete]
func (c *PostController) UnlikePost(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	post, err := c.postService.UnlikePost(ctx, postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// AddComment comments on a post
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment payload"
// @Success 201 {object} dto.APIResponse{data=models.Comment} "Comment created"
// @Router /posts/{id}/comments [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	comment, err := c.postService.AddComment(ctx, postID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// ListComments lists the comments on a post
// @Summary List comments
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Comment} "Comments, oldest first"
// @Router /posts/{id}/comments [get]
func (c *PostController) ListComments(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.postService.ListComments(ctx, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}

// DeleteComment deletes a comment
// @Summary Delete a comment
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse "Comment deleted"
// @Failure 403 {object} dto.ErrorResponse "Only the author or an admin may delete"
// @Router /posts/comments/{id} [delete]
func (c *PostController) DeleteComment(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.DeleteComment(ctx, commentID, userID, isAdmin(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted"))
}
