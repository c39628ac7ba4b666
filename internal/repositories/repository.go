package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories behind a single handle so
// services can depend on one interface.
type Repository interface {
	Simulation() SimulationRepository
	Question() QuestionRepository
	Assignment() AssignmentRepository
	Session() SessionRepository
	Result() ResultRepository
	User() UserRepository
	Group() GroupRepository
	VirtualRoom() VirtualRoomRepository
	Notification() NotificationRepository

	// Transaction runs fn with a Repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(Repository) error) error
}

// IsNotFoundError reports whether err is the store's record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
