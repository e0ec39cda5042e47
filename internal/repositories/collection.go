package repositories

import (
	"sklink/internal/database"

	"go.uber.org/zap"
)

// Collection bundles every repository behind one constructor so service
// wiring stays in one place.
type Collection struct {
	Official     OfficialRepository
	Youth        YouthRepository
	Purok        PurokRepository
	Post         PostRepository
	Comment      CommentRepository
	Reaction     ReactionRepository
	Ban          BanRepository
	Notification NotificationRepository
	Feedback     FeedbackRepository
}

// NewCollection creates all repositories over one database manager.
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		Official:     NewOfficialRepository(db, logger),
		Youth:        NewYouthRepository(db, logger),
		Purok:        NewPurokRepository(db, logger),
		Post:         NewPostRepository(db, logger),
		Comment:      NewCommentRepository(db, logger),
		Reaction:     NewReactionRepository(db, logger),
		Ban:          NewBanRepository(db, logger),
		Notification: NewNotificationRepository(db, logger),
		Feedback:     NewFeedbackRepository(db, logger),
	}
}
