package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/middleware"
	"github.com/campusbuzz/backend/internal/pkg/helpers"
)

// AdminController handles user administration operations
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// ListUsers lists all users, including inactive ones
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(STUDENT, TEACHER, ADMIN, CLUB_HEAD)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Users"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	var role *models.RoleType
	if roleStr := ctx.Query("role"); roleStr != "" {
		r := models.RoleType(roleStr)
		role = &r
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.adminService.ListUsers(ctx, role, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]interface{}, 0, len(users))
	for _, user := range users {
		responses = append(responses, services.ToUserResponse(user, 0, 0))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// ChangeUserRole changes a user's role
// @Summary Change a user's role
// @Description Assigns a new role to a user. Admins cannot change their own role.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.ChangeRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Role changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid role or own account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/role [put]
func (c *AdminController) ChangeUserRole(ctx *gin.Context) {
	adminID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.adminService.ChangeUserRole(ctx, adminID, userID, models.RoleType(req.Role))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(services.ToUserResponse(user, 0, 0)))
}

// DeactivateUser disables a user account
// @Summary Deactivate a user
// @Description Disables the account and revokes its refresh tokens. Admin accounts and the caller's own account cannot be deactivated.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse "User deactivated"
// @Failure 403 {object} dto.ErrorResponse "Target is an admin"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeactivateUser(ctx *gin.Context) {
	adminID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeactivateUser(ctx, adminID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User deactivated"))
}

// ReactivateUser re-enables a deactivated account
// @Summary Reactivate a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse "User reactivated"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/reactivate [post]
func (c *AdminController) ReactivateUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.ReactivateUser(ctx, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User reactivated"))
}
