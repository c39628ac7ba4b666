package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonardo-school/simulation-service/internal/cache"
	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
)

// VirtualRoomService lets staff open a simulation ahead of its scheduled
// start date. The open flag is cached because every session start checks it.
type VirtualRoomService interface {
	Open(ctx context.Context, simulationID uint, userID string, role models.UserRole) (*models.VirtualRoom, error)
	CloseRoom(ctx context.Context, roomID uint, userID string, role models.UserRole) error

	// IsOpen never errors: on store trouble it logs and reports closed, so
	// access evaluation degrades to the scheduled window.
	IsOpen(ctx context.Context, simulationID uint) bool
	GetOpen(ctx context.Context, simulationID uint) (*models.VirtualRoom, error)
}

const (
	roomFlagKeyFormat = "virtual_room:open:%d"
	roomFlagTTL       = 5 * time.Minute
)

type virtualRoomService struct {
	repo     repositories.Repository
	cache    cache.CacheService
	logger   *slog.Logger
	notifier NotificationEventService
}

func NewVirtualRoomService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, notifier NotificationEventService) VirtualRoomService {
	return &virtualRoomService{
		repo:     repo,
		cache:    cacheService,
		logger:   logger,
		notifier: notifier,
	}
}

func (s *virtualRoomService) Open(ctx context.Context, simulationID uint, userID string, role models.UserRole) (*models.VirtualRoom, error) {
	if !role.IsStaff() {
		return nil, NewPermissionError(userID, simulationID, "virtual_room", "open", "staff only")
	}

	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if sim.Status != models.SimulationPublished {
		return nil, ErrSimulationNotPublished
	}

	if _, err := s.repo.VirtualRoom().GetOpenBySimulation(ctx, simulationID); err == nil {
		return nil, ErrVirtualRoomAlreadyOpen
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check open rooms: %w", err)
	}

	room := &models.VirtualRoom{
		SimulationID: simulationID,
		OpenedBy:     userID,
		OpenedAt:     time.Now(),
	}
	if err := s.repo.VirtualRoom().Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to open virtual room: %w", err)
	}

	s.setFlag(ctx, simulationID, true)

	s.logger.Info("Virtual room opened",
		"room_id", room.ID, "simulation_id", simulationID, "user_id", userID)

	if err := s.notifier.NotifyVirtualRoomOpened(ctx, room, sim); err != nil {
		s.logger.Warn("Failed to send virtual room notification",
			"room_id", room.ID, "error", err)
	}

	return room, nil
}

func (s *virtualRoomService) CloseRoom(ctx context.Context, roomID uint, userID string, role models.UserRole) error {
	if !role.IsStaff() {
		return NewPermissionError(userID, roomID, "virtual_room", "close", "staff only")
	}

	room, err := s.repo.VirtualRoom().GetByID(ctx, roomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrVirtualRoomNotFound
		}
		return fmt.Errorf("failed to get virtual room: %w", err)
	}
	if !room.IsOpen() {
		return ErrVirtualRoomClosed
	}

	now := time.Now()
	room.ClosedAt = &now
	if err := s.repo.VirtualRoom().Update(ctx, room); err != nil {
		return fmt.Errorf("failed to close virtual room: %w", err)
	}

	s.setFlag(ctx, room.SimulationID, false)

	s.logger.Info("Virtual room closed",
		"room_id", roomID, "simulation_id", room.SimulationID, "user_id", userID)
	return nil
}

func (s *virtualRoomService) IsOpen(ctx context.Context, simulationID uint) bool {
	key := fmt.Sprintf(roomFlagKeyFormat, simulationID)

	var open bool
	if err := s.cache.Get(ctx, key, &open); err == nil {
		return open
	}

	_, err := s.repo.VirtualRoom().GetOpenBySimulation(ctx, simulationID)
	switch {
	case err == nil:
		open = true
	case repositories.IsNotFoundError(err):
		open = false
	default:
		s.logger.Warn("Failed to check virtual room state, treating as closed",
			"simulation_id", simulationID, "error", err)
		return false
	}

	s.setFlag(ctx, simulationID, open)
	return open
}

func (s *virtualRoomService) GetOpen(ctx context.Context, simulationID uint) (*models.VirtualRoom, error) {
	room, err := s.repo.VirtualRoom().GetOpenBySimulation(ctx, simulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrVirtualRoomNotFound
		}
		return nil, fmt.Errorf("failed to get open virtual room: %w", err)
	}
	return room, nil
}

func (s *virtualRoomService) setFlag(ctx context.Context, simulationID uint, open bool) {
	key := fmt.Sprintf(roomFlagKeyFormat, simulationID)
	if err := s.cache.Set(ctx, key, open, roomFlagTTL); err != nil {
		s.logger.Warn("Failed to cache virtual room flag",
			"simulation_id", simulationID, "error", err)
	}
}
