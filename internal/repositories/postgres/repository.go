package postgres

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/repositories"
	"gorm.io/gorm"
)

// gormRepository binds every per-entity repository to one *gorm.DB, which is
// either the root connection or a transaction handle.
type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Simulation() repositories.SimulationRepository {
	return &SimulationPostgreSQL{db: r.db}
}

func (r *gormRepository) Question() repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: r.db}
}

func (r *gormRepository) Assignment() repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: r.db}
}

func (r *gormRepository) Session() repositories.SessionRepository {
	return &SessionPostgreSQL{db: r.db}
}

func (r *gormRepository) Result() repositories.ResultRepository {
	return &ResultPostgreSQL{db: r.db}
}

func (r *gormRepository) User() repositories.UserRepository {
	return &UserPostgreSQL{db: r.db}
}

func (r *gormRepository) Group() repositories.GroupRepository {
	return &GroupPostgreSQL{db: r.db}
}

func (r *gormRepository) VirtualRoom() repositories.VirtualRoomRepository {
	return &VirtualRoomPostgreSQL{db: r.db}
}

func (r *gormRepository) Notification() repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: r.db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
