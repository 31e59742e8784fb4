package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/middleware"
	"github.com/campusbuzz/backend/internal/pkg/helpers"
)

// UserController handles user profile and follow operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
			WithField(name).
			WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return 0, false
	}
	return userID, true
}

// GetMe returns the authenticated user's own profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.userService.GetProfile(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// GetUser returns a user's public profile
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile retrieved"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	profile, err := c.userService.GetProfile(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateMe updates the authenticated user's profile
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /users/me [put]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	profile, err := c.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UploadAvatar replaces the authenticated user's avatar
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Avatar updated"
// @Failure 400 {object} dto.ErrorResponse "No file provided"
// @Router /users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	profile, err := c.userService.UploadAvatar(ctx, userID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// SearchUsers searches users by name or username
// @Summary Search users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Search results"
// @Router /users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	term := ctx.Query("q")
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.userService.Search(ctx, term, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summaries := make([]interface{}, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summary())
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      summaries,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// FollowUser makes the authenticated user follow another user
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to follow"
// @Success 200 {object} dto.APIResponse "Now following"
// @Failure 400 {object} dto.ErrorResponse "Cannot follow yourself"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/follow [post]
func (c *UserController) FollowUser(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.Follow(ctx, userID, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Now following"))
}

// UnfollowUser removes a follow
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to unfollow"
// @Success 200 {object} dto.APIResponse "No longer following"
// @Router /users/{id}/follow [delete]
func (c *UserController) UnfollowUser(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.Unfollow(ctx, userID, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("No longer following"))
}

// ListFollowers lists a user's followers
// @Summary List followers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.UserSummary} "Followers"
// @Router /users/{id}/followers [get]
func (c *UserController) ListFollowers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	followers, err := c.userService.ListFollowers(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(followers))
}

// ListFollowing lists who a user follows
// @Summary List following
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.UserSummary} "Following"
// @Router /users/{id}/following [get]
func (c *UserController) ListFollowing(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	following, err := c.userService.ListFollowing(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(following))
}
