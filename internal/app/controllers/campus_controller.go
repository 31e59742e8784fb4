package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/middleware"
	"github.com/campusbuzz/backend/internal/pkg/helpers"
)

// CampusController handles events, activities, notices, placements and
// the lost-and-found board
type CampusController struct {
	campusService services.CampusService
}

// NewCampusController creates a new CampusController
func NewCampusController(campusService services.CampusService) *CampusController {
	return &CampusController{
		campusService: campusService,
	}
}

// actorFromContext builds the acting user from the JWT claims already
// in the context. Authorization only needs the ID and role.
func actorFromContext(ctx *gin.Context) (*models.User, bool) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return nil, false
	}
	role, _ := ctx.Get("roleType")
	roleStr, _ := role.(string)
	return &models.User{ID: userID, RoleType: models.RoleType(roleStr)}, true
}

// bindFormPayload decodes the JSON document carried in the "payload"
// form field. Requests without a multipart body fall back to plain
// JSON binding so both content types work.
func bindFormPayload(ctx *gin.Context, obj interface{}) error {
	payload := ctx.PostForm("payload")
	if payload == "" {
		return ctx.ShouldBindJSON(obj)
	}
	if err := json.Unmarshal([]byte(payload), obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

// optionalFormFile returns the uploaded file under name, or nil when
// the field is absent.
func optionalFormFile(ctx *gin.Context, name string) *multipart.FileHeader {
	file, err := ctx.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// CreateEvent creates a campus event
// @Summary Create an event
// @Description Creates a campus event. Teachers, admins and club heads may create. Accepts multipart form with an optional image.
// @Tags campus
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "Event JSON payload"
// @Param image formData file false "Event image"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Event created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Router /events [post]
func (c *CampusController) CreateEvent(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := bindFormPayload(ctx, &req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	event, err := c.campusService.CreateEvent(ctx, actor, &req, optionalFormFile(ctx, "image"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// GetEvent retrieves an event
// @Summary Get an event
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=models.Event} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *CampusController) GetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.campusService.GetEvent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// ListEvents lists events
// @Summary List events
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param upcoming query bool false "Only upcoming events"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Events"
// @Router /events [get]
func (c *CampusController) ListEvents(ctx *gin.Context) {
	upcomingOnly := ctx.Query("upcoming") == "true"
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	events, total, err := c.campusService.ListEvents(ctx, upcomingOnly, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      events,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateEvent updates an event
// @Summary Update an event
// @Description Rewrites an event. The creator or an admin may update. The image is unchanged.
// @Tags campus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.CreateEventRequest true "Event payload"
// @Success 200 {object} dto.APIResponse{data=models.Event} "Updated event"
// @Failure 403 {object} dto.ErrorResponse "Only the creator or an admin may update"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *CampusController) UpdateEvent(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	event, err := c.campusService.UpdateEvent(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// DeleteEvent deletes an event
// @Summary Delete an event
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deleted"
// @Failure 403 {object} dto.ErrorResponse "Only the creator or an admin may delete"
// @Router /events/{id} [delete]
func (c *CampusController) DeleteEvent(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.campusService.DeleteEvent(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Event deleted"))
}

// CreateActivity creates a campus activity
// @Summary Create an activity
// @Tags campus
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "Activity JSON payload"
// @Param image formData file false "Activity image"
// @Success 201 {object} dto.APIResponse{data=models.Activity} "Activity created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Router /activities [post]
func (c *CampusController) CreateActivity(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.CreateActivityRequest
	if err := bindFormPayload(ctx, &req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	activity, err := c.campusService.CreateActivity(ctx, actor, &req, optionalFormFile(ctx, "image"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(activity))
}

// ListActivities lists activities
// @Summary List activities
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Activities"
// @Router /activities [get]
func (c *CampusController) ListActivities(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	activities, total, err := c.campusService.ListActivities(ctx, ctx.Query("category"), int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      activities,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateActivity updates an activity
// @Summary Update an activity
// @Tags campus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Param request body dto.CreateActivityRequest true "Activity payload"
// @Success 200 {object} dto.APIResponse{data=models.Activity} "Updated activity"
// @Failure 403 {object} dto.ErrorResponse "Only the creator or an admin may update"
// @Router /activities/{id} [put]
func (c *CampusController) UpdateActivity(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	activity, err := c.campusService.UpdateActivity(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity))
}

// DeleteActivity deletes an activity
// @Summary Delete an activity
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 200 {object} dto.APIResponse "Activity deleted"
// @Router /activities/{id} [delete]
func (c *CampusController) DeleteActivity(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.campusService.DeleteActivity(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Activity deleted"))
}

// PublishNotice publishes an official notice
// @Summary Publish a notice
// @Description Publishes an official campus notice. Teachers and admins may publish; important notices are emailed to all active users.
// @Tags campus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNoticeRequest true "Notice payload"
// @Success 201 {object} dto.APIResponse{data=models.Notice} "Notice published"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Router /notices [post]
func (c *CampusController) PublishNotice(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.CreateNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notice, err := c.campusService.PublishNotice(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(notice))
}

// ListNotices lists notices
// @Summary List notices
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Notices, important first"
// @Router /notices [get]
func (c *CampusController) ListNotices(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	notices, total, err := c.campusService.ListNotices(ctx, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      notices,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateNotice updates a notice
// @Summary Update a notice
// @Description Rewrites a notice. The publisher or an admin may update. Edits do not re-trigger the email fanout.
// @Tags campus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Param request body dto.CreateNoticeRequest true "Notice payload"
// @Success 200 {object} dto.APIResponse{data=models.Notice} "Updated notice"
// @Failure 403 {object} dto.ErrorResponse "Only the publisher or an admin may update"
// @Router /notices/{id} [put]
func (c *CampusController) UpdateNotice(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notice, err := c.campusService.UpdateNotice(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notice))
}

// DeleteNotice deletes a notice
// @Summary Delete a notice
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse "Notice deleted"
// @Router /notices/{id} [delete]
func (c *CampusController) DeleteNotice(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.campusService.DeleteNotice(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notice deleted"))
}

// CreatePlacement adds a placement gallery entry
// @Summary Create a placement entry
// @Tags campus
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "Placement JSON payload"
// @Param photo formData file false "Student photo"
// @Success 201 {object} dto.APIResponse{data=models.Placement} "Placement created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Router /placements [post]
func (c *CampusController) CreatePlacement(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.CreatePlacementRequest
	if err := bindFormPayload(ctx, &req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	placement, err := c.campusService.CreatePlacement(ctx, actor, &req, optionalFormFile(ctx, "photo"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(placement))
}

// ListPlacements lists placement entries
// @Summary List placements
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param batchYear query int false "Filter by batch year"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Placements"
// @Router /placements [get]
func (c *CampusController) ListPlacements(ctx *gin.Context) {
	batchYear, _ := strconv.Atoi(ctx.Query("batchYear"))
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	placements, total, err := c.campusService.ListPlacements(ctx, batchYear, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      placements,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// DeletePlacement deletes a placement entry
// @Summary Delete a placement entry
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Success 200 {object} dto.APIResponse "Placement deleted"
// @Router /placements/{id} [delete]
func (c *CampusController) DeletePlacement(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.campusService.DeletePlacement(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Placement deleted"))
}

// ReportItem reports a lost or found item
// @Summary Report a lost or found item
// @Tags campus
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "Item JSON payload"
// @Param image formData file false "Item image"
// @Success 201 {object} dto.APIResponse{data=models.LostFoundItem} "Item reported"
// @Router /lostfound [post]
func (c *CampusController) ReportItem(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateLostFoundRequest
	if err := bindFormPayload(ctx, &req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	item, err := c.campusService.ReportItem(ctx, userID, &req, optionalFormFile(ctx, "image"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(item))
}

// ListItems lists lost-and-found board items
// @Summary List lost and found items
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Filter by kind" Enums(LOST, FOUND)
// @Param includeResolved query bool false "Include resolved items"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Board items"
// @Router /lostfound [get]
func (c *CampusController) ListItems(ctx *gin.Context) {
	kind := models.LostFoundKind(ctx.Query("kind"))
	includeResolved := ctx.Query("includeResolved") == "true"
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	items, total, err := c.campusService.ListItems(ctx, kind, includeResolved, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// ResolveItem marks a board item resolved
// @Summary Resolve a lost and found item
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} dto.APIResponse "Item resolved"
// @Failure 403 {object} dto.ErrorResponse "Only the reporter or an admin may resolve"
// @Router /lostfound/{id}/resolve [post]
func (c *CampusController) ResolveItem(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.campusService.ResolveItem(ctx, actor, id, true); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Item resolved"))
}

// DeleteItem deletes a board item
// @Summary Delete a lost and found item
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} dto.APIResponse "Item deleted"
// @Router /lostfound/{id} [delete]
func (c *CampusController) DeleteItem(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.campusService.DeleteItem(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Item deleted"))
}
