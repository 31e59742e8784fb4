package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/email"
	"github.com/campusbuzz/backend/internal/pkg/filestorage"
)

// EventStore is the event persistence surface.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, upcomingOnly bool, offset, limit int) ([]*models.Event, int64, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
}

// ActivityStore is the activity persistence surface.
type ActivityStore interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id int64) (*models.Activity, error)
	List(ctx context.Context, category string, offset, limit int) ([]*models.Activity, int64, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id int64) error
}

// NoticeStore is the notice persistence surface.
type NoticeStore interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id int64) (*models.Notice, error)
	List(ctx context.Context, offset, limit int) ([]*models.Notice, int64, error)
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id int64) error
}

// PlacementStore is the placement persistence surface.
type PlacementStore interface {
	Create(ctx context.Context, placement *models.Placement) error
	GetByID(ctx context.Context, id int64) (*models.Placement, error)
	List(ctx context.Context, batchYear int, offset, limit int) ([]*models.Placement, int64, error)
	Delete(ctx context.Context, id int64) error
}

// LostFoundStore is the lost-and-found persistence surface.
type LostFoundStore interface {
	Create(ctx context.Context, item *models.LostFoundItem) error
	GetByID(ctx context.Context, id int64) (*models.LostFoundItem, error)
	List(ctx context.Context, kind models.LostFoundKind, includeResolved bool, offset, limit int) ([]*models.LostFoundItem, int64, error)
	SetResolved(ctx context.Context, id int64, resolved bool) error
	Delete(ctx context.Context, id int64) error
}

// RecipientLister resolves notification recipients for notice fanout.
// *repositories.UserRepository satisfies it.
type RecipientLister interface {
	ListActiveRecipients(ctx context.Context) ([]repositories.EmailRecipient, error)
}

// CampusService defines the interface for campus content: events,
// activities, notices, placements and the lost-and-found board.
type CampusService interface {
	CreateEvent(ctx context.Context, actor *models.User, req *dto.CreateEventRequest, image *multipart.FileHeader) (*models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, upcomingOnly bool, offset, limit int) ([]*models.Event, int64, error)
	UpdateEvent(ctx context.Context, actor *models.User, id int64, req *dto.CreateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, actor *models.User, id int64) error

	CreateActivity(ctx context.Context, actor *models.User, req *dto.CreateActivityRequest, image *multipart.FileHeader) (*models.Activity, error)
	GetActivity(ctx context.Context, id int64) (*models.Activity, error)
	ListActivities(ctx context.Context, category string, offset, limit int) ([]*models.Activity, int64, error)
	UpdateActivity(ctx context.Context, actor *models.User, id int64, req *dto.CreateActivityRequest) (*models.Activity, error)
	DeleteActivity(ctx context.Context, actor *models.User, id int64) error

	PublishNotice(ctx context.Context, actor *models.User, req *dto.CreateNoticeRequest) (*models.Notice, error)
	GetNotice(ctx context.Context, id int64) (*models.Notice, error)
	ListNotices(ctx context.Context, offset, limit int) ([]*models.Notice, int64, error)
	UpdateNotice(ctx context.Context, actor *models.User, id int64, req *dto.CreateNoticeRequest) (*models.Notice, error)
	DeleteNotice(ctx context.Context, actor *models.User, id int64) error

	CreatePlacement(ctx context.Context, actor *models.User, req *dto.CreatePlacementRequest, photo *multipart.FileHeader) (*models.Placement, error)
	GetPlacement(ctx context.Context, id int64) (*models.Placement, error)
	ListPlacements(ctx context.Context, batchYear, offset, limit int) ([]*models.Placement, int64, error)
	DeletePlacement(ctx context.Context, actor *models.User, id int64) error

	ReportItem(ctx context.Context, reporterID int64, req *dto.CreateLostFoundRequest, image *multipart.FileHeader) (*models.LostFoundItem, error)
	GetItem(ctx context.Context, id int64) (*models.LostFoundItem, error)
	ListItems(ctx context.Context, kind models.LostFoundKind, includeResolved bool, offset, limit int) ([]*models.LostFoundItem, int64, error)
	ResolveItem(ctx context.Context, actor *models.User, id int64, resolved bool) error
	DeleteItem(ctx context.Context, actor *models.User, id int64) error
}

// campusServiceImpl implements the CampusService interface
type campusServiceImpl struct {
	eventRepo     EventStore
	activityRepo  ActivityStore
	noticeRepo    NoticeStore
	placementRepo PlacementStore
	lostFoundRepo LostFoundStore
	userRepo      RecipientLister
	fileStorage   filestorage.Storage
	emailService  email.EmailService
	logger        zerolog.Logger
}

// NewCampusService creates a new campus content service instance
func NewCampusService(
	eventRepo EventStore,
	activityRepo ActivityStore,
	noticeRepo NoticeStore,
	placementRepo PlacementStore,
	lostFoundRepo LostFoundStore,
	userRepo RecipientLister,
	fileStorage filestorage.Storage,
	emailService email.EmailService,
	logger zerolog.Logger,
) CampusService {
	return &campusServiceImpl{
		eventRepo:     eventRepo,
		activityRepo:  activityRepo,
		noticeRepo:    noticeRepo,
		placementRepo: placementRepo,
		lostFoundRepo: lostFoundRepo,
		userRepo:      userRepo,
		fileStorage:   fileStorage,
		emailService:  emailService,
		logger:        logger,
	}
}

// saveOptionalImage stores an optional upload and returns its URL and
// key, both nil when no file was sent.
func (s *campusServiceImpl) saveOptionalImage(file *multipart.FileHeader, subPath string) (*string, *string, error) {
	if file == nil {
		return nil, nil, nil
	}
	stored, err := s.fileStorage.Save(file, subPath)
	if err != nil {
		return nil, nil, err
	}
	return &stored.URL, &stored.Key, nil
}

func (s *campusServiceImpl) deleteStoredFile(key *string) {
	if key == nil {
		return
	}
	if err := s.fileStorage.Delete(*key); err != nil {
		s.logger.Warn().Err(err).Str("key", *key).Msg("Failed to delete stored file")
	}
}

// CreateEvent creates a campus event. Teachers, admins and club heads
// may create.
func (s *campusServiceImpl) CreateEvent(ctx context.Context, actor *models.User, req *dto.CreateEventRequest, image *multipart.FileHeader) (*models.Event, error) {
	if !actor.RoleType.CanManageCampusContent() {
		return nil, apperrors.ErrPermissionDenied
	}

	imageURL, storageKey, err := s.saveOptionalImage(image, "events")
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		ImageURL:    imageURL,
		StorageKey:  storageKey,
		CreatedBy:   actor.ID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.deleteStoredFile(storageKey)
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by ID.
func (s *campusServiceImpl) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents returns events, soonest first.
func (s *campusServiceImpl) ListEvents(ctx context.Context, upcomingOnly bool, offset, limit int) ([]*models.Event, int64, error) {
	return s.eventRepo.List(ctx, upcomingOnly, offset, limit)
}

// UpdateEvent rewrites an event. The creator or an admin may update;
// the image, if any, is left untouched.
func (s *campusServiceImpl) UpdateEvent(ctx context.Context, actor *models.User, id int64, req *dto.CreateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Venue = req.Venue
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event. The creator or an admin may delete.
func (s *campusServiceImpl) DeleteEvent(ctx context.Context, actor *models.User, id int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteStoredFile(event.StorageKey)
	return nil
}

// CreateActivity creates a campus activity.
func (s *campusServiceImpl) CreateActivity(ctx context.Context, actor *models.User, req *dto.CreateActivityRequest, image *multipart.FileHeader) (*models.Activity, error) {
	if !actor.RoleType.CanManageCampusContent() {
		return nil, apperrors.ErrPermissionDenied
	}

	imageURL, storageKey, err := s.saveOptionalImage(image, "activities")
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    imageURL,
		StorageKey:  storageKey,
		CreatedBy:   actor.ID,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.deleteStoredFile(storageKey)
		return nil, err
	}
	return activity, nil
}

// GetActivity retrieves an activity by ID.
func (s *campusServiceImpl) GetActivity(ctx context.Context, id int64) (*models.Activity, error) {
	return s.activityRepo.GetByID(ctx, id)
}

// ListActivities returns activities, optionally filtered by category.
func (s *campusServiceImpl) ListActivities(ctx context.Context, category string, offset, limit int) ([]*models.Activity, int64, error) {
	return s.activityRepo.List(ctx, category, offset, limit)
}

// UpdateActivity rewrites an activity. The creator or an admin may
// update.
func (s *campusServiceImpl) UpdateActivity(ctx context.Context, actor *models.User, id int64, req *dto.CreateActivityRequest) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	activity.Title = req.Title
	activity.Description = req.Description
	activity.Category = req.Category
	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// DeleteActivity removes an activity. The creator or an admin may
// delete.
func (s *campusServiceImpl) DeleteActivity(ctx context.Context, actor *models.User, id int64) error {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if activity.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	if err := s.activityRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteStoredFile(activity.StorageKey)
	return nil
}

// PublishNotice publishes an official notice. Teachers and admins may
// publish; important notices are fanned out by email in the background.
func (s *campusServiceImpl) PublishNotice(ctx context.Context, actor *models.User, req *dto.CreateNoticeRequest) (*models.Notice, error) {
	if !actor.RoleType.CanPublishNotices() {
		return nil, apperrors.ErrPermissionDenied
	}

	notice := &models.Notice{
		Title:     req.Title,
		Body:      req.Body,
		Important: req.Important,
		CreatedBy: actor.ID,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}

	if notice.Important {
		go s.fanOutNotice(notice)
	}
	return notice, nil
}

// fanOutNotice emails every active user about an important notice.
// Runs detached from the request; failures are logged per recipient.
func (s *campusServiceImpl) fanOutNotice(notice *models.Notice) {
	recipients, err := s.userRepo.ListActiveRecipients(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Int64("noticeId", notice.ID).Msg("Failed to list notice recipients")
		return
	}

	sent := 0
	for _, rec := range recipients {
		if err := s.emailService.SendNoticeEmail(rec.Email, rec.FullName, notice.Title, notice.Body); err != nil {
			s.logger.Warn().Err(err).Str("toEmail", rec.Email).Int64("noticeId", notice.ID).Msg("Failed to send notice email")
			continue
		}
		sent++
	}
	s.logger.Info().Int64("noticeId", notice.ID).Int("sent", sent).Int("total", len(recipients)).Msg("Notice fanout complete")
}

// GetNotice retrieves a notice by ID.
func (s *campusServiceImpl) GetNotice(ctx context.Context, id int64) (*models.Notice, error) {
	return s.noticeRepo.GetByID(ctx, id)
}

// ListNotices returns notices, important first.
func (s *campusServiceImpl) ListNotices(ctx context.Context, offset, limit int) ([]*models.Notice, int64, error) {
	return s.noticeRepo.List(ctx, offset, limit)
}

// UpdateNotice rewrites a notice. The publisher or an admin may update.
// Edits do not re-trigger the email fanout.
func (s *campusServiceImpl) UpdateNotice(ctx context.Context, actor *models.User, id int64, req *dto.CreateNoticeRequest) (*models.Notice, error) {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	notice.Title = req.Title
	notice.Body = req.Body
	notice.Important = req.Important
	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// DeleteNotice removes a notice. The publisher or an admin may delete.
func (s *campusServiceImpl) DeleteNotice(ctx context.Context, actor *models.User, id int64) error {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notice.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}
	return s.noticeRepo.Delete(ctx, id)
}

// CreatePlacement adds an entry to the placement gallery.
func (s *campusServiceImpl) CreatePlacement(ctx context.Context, actor *models.User, req *dto.CreatePlacementRequest, photo *multipart.FileHeader) (*models.Placement, error) {
	if !actor.RoleType.CanManageCampusContent() {
		return nil, apperrors.ErrPermissionDenied
	}

	photoURL, storageKey, err := s.saveOptionalImage(photo, "placements")
	if err != nil {
		return nil, err
	}

	placement := &models.Placement{
		StudentName: req.StudentName,
		Company:     req.Company,
		Role:        req.Role,
		Package:     req.Package,
		BatchYear:   req.BatchYear,
		PhotoURL:    photoURL,
		StorageKey:  storageKey,
		CreatedBy:   actor.ID,
	}
	if err := s.placementRepo.Create(ctx, placement); err != nil {
		s.deleteStoredFile(storageKey)
		return nil, err
	}
	return placement, nil
}

// GetPlacement retrieves a placement entry by ID.
func (s *campusServiceImpl) GetPlacement(ctx context.Context, id int64) (*models.Placement, error) {
	return s.placementRepo.GetByID(ctx, id)
}

// ListPlacements returns placements, optionally filtered by batch year.
func (s *campusServiceImpl) ListPlacements(ctx context.Context, batchYear, offset, limit int) ([]*models.Placement, int64, error) {
	return s.placementRepo.List(ctx, batchYear, offset, limit)
}

// DeletePlacement removes a placement entry. The creator or an admin
// may delete.
func (s *campusServiceImpl) DeletePlacement(ctx context.Context, actor *models.User, id int64) error {
	placement, err := s.placementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if placement.CreatedBy != actor.ID && actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	if err := s.placementRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteStoredFile(placement.StorageKey)
	return nil
}

// ReportItem posts a lost or found report. Any user may report.
func (s *campusServiceImpl) ReportItem(ctx context.Context, reporterID int64, req *dto.CreateLostFoundRequest, image *multipart.FileHeader) (*models.LostFoundItem, error) {
	imageURL, storageKey, err := s.saveOptionalImage(image, "lostfound")
	if err != nil {
		return nil, err
	}

	item := &models.LostFoundItem{
		Kind:        models.LostFoundKind(req.Kind),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    imageURL,
		StorageKey:  storageKey,
		ReporterID:  reporterID,
	}
	if err := s.lostFoundRepo.Create(ctx, item); err != nil {
		s.deleteStoredFile(storageKey)
		return nil, err
	}
	return item, nil
}

// GetItem retrieves a lost-and-found item by ID.
func (s *campusServiceImpl) GetItem(ctx context.Context, id int64) (*models.LostFoundItem, error) {
	return s.lostFoundRepo.GetByID(ctx, id)
}

// ListItems returns board items, open ones by default.
func (s *campusServiceImpl) ListItems(ctx context.Context, kind models.LostFoundKind, includeResolved bool, offset, limit int) ([]*models.LostFoundItem, int64, error) {
	return s.lostFoundRepo.List(ctx, kind, includeResolved, offset, limit)
}

// ResolveItem marks an item resolved or reopens it. The reporter or an
// admin may resolve.
func (s *campusServiceImpl) ResolveItem(ctx context.Context, actor *models.User, id int64, resolved bool) error {
	item, err := s.lostFoundRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.ReporterID != actor.ID && actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}
	return s.lostFoundRepo.SetResolved(ctx, id, resolved)
}

// DeleteItem removes a board item. The reporter or an admin may delete.
func (s *campusServiceImpl) DeleteItem(ctx context.Context, actor *models.User, id int64) error {
	item, err := s.lostFoundRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.ReporterID != actor.ID && actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	if err := s.lostFoundRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteStoredFile(item.StorageKey)
	return nil
}
