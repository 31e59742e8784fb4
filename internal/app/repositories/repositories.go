package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	FollowRepository     *FollowRepository
	TokenRepository      *TokenRepository
	ConnectionRepository *ConnectionRepository
	MessageRepository    *MessageRepository
	PostRepository       *PostRepository
	EventRepository      *EventRepository
	ActivityRepository   *ActivityRepository
	NoticeRepository     *NoticeRepository
	PlacementRepository  *PlacementRepository
	LostFoundRepository  *LostFoundRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		FollowRepository:     NewFollowRepository(db),
		TokenRepository:      NewTokenRepository(db),
		ConnectionRepository: NewConnectionRepository(db),
		MessageRepository:    NewMessageRepository(db),
		PostRepository:       NewPostRepository(db),
		EventRepository:      NewEventRepository(db),
		ActivityRepository:   NewActivityRepository(db),
		NoticeRepository:     NewNoticeRepository(db),
		PlacementRepository:  NewPlacementRepository(db),
		LostFoundRepository:  NewLostFoundRepository(db),
	}
}
