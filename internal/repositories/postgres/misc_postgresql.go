package postgres

import (
	"context"
	"time"

	"github.com/leonardo-school/simulation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Upsert(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "role", "is_active", "updated_at"}),
		}).
		Create(user).Error
}

type GroupPostgreSQL struct {
	db *gorm.DB
}

func (g *GroupPostgreSQL) Create(ctx context.Context, group *models.Group) error {
	return g.db.WithContext(ctx).Create(group).Error
}

func (g *GroupPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := g.db.WithContext(ctx).Preload("Members").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (g *GroupPostgreSQL) GetMemberIDs(ctx context.Context, groupID uint) ([]string, error) {
	var ids []string
	if err := g.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (g *GroupPostgreSQL) AddMember(ctx context.Context, member *models.GroupMember) error {
	return g.db.WithContext(ctx).Create(member).Error
}

func (g *GroupPostgreSQL) RemoveMember(ctx context.Context, groupID uint, studentID string) error {
	return g.db.WithContext(ctx).
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		Delete(&models.GroupMember{}).Error
}

type VirtualRoomPostgreSQL struct {
	db *gorm.DB
}

func (v *VirtualRoomPostgreSQL) Create(ctx context.Context, room *models.VirtualRoom) error {
	return v.db.WithContext(ctx).Create(room).Error
}

func (v *VirtualRoomPostgreSQL) GetByID(ctx context.Context, id uint) (*models.VirtualRoom, error) {
	var room models.VirtualRoom
	if err := v.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (v *VirtualRoomPostgreSQL) Update(ctx context.Context, room *models.VirtualRoom) error {
	return v.db.WithContext(ctx).Save(room).Error
}

func (v *VirtualRoomPostgreSQL) GetOpenBySimulation(ctx context.Context, simulationID uint) (*models.VirtualRoom, error) {
	var room models.VirtualRoom
	if err := v.db.WithContext(ctx).
		Where("simulation_id = ? AND closed_at IS NULL", simulationID).
		Order("opened_at DESC").
		First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	return n.db.WithContext(ctx).Create(notification).Error
}

func (n *NotificationPostgreSQL) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return n.db.WithContext(ctx).Create(notifications).Error
}

func (n *NotificationPostgreSQL) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id uint, recipientID string) error {
	now := time.Now()
	return n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read_at", now).Error
}
