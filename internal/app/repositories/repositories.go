package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	MaterialRepository       *MaterialRepository
	TradeRepository          *TradeRepository
	ChatRepository           *ChatRepository
	MessageRepository        *MessageRepository
	NotificationRepository   *NotificationRepository
	ReportRepository         *ReportRepository
	RecommendationRepository *RecommendationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		MaterialRepository:       NewMaterialRepository(db),
		TradeRepository:          NewTradeRepository(db),
		ChatRepository:           NewChatRepository(db),
		MessageRepository:        NewMessageRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
		ReportRepository:         NewReportRepository(db),
		RecommendationRepository: NewRecommendationRepository(db),
	}
}
