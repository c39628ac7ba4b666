package repositories

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetMemberIDs(ctx context.Context, groupID uint) ([]string, error)
	AddMember(ctx context.Context, member *models.GroupMember) error
	RemoveMember(ctx context.Context, groupID uint, studentID string) error
}

type VirtualRoomRepository interface {
	Create(ctx context.Context, room *models.VirtualRoom) error
	GetByID(ctx context.Context, id uint) (*models.VirtualRoom, error)
	Update(ctx context.Context, room *models.VirtualRoom) error

	// GetOpenBySimulation returns the open room for a simulation, or a
	// not-found error when none is open.
	GetOpenBySimulation(ctx context.Context, simulationID uint) (*models.VirtualRoom, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint, recipientID string) error
}
