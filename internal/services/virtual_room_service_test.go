package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leonardo-school/simulation-service/internal/cache"
	"github.com/leonardo-school/simulation-service/internal/models"
)

// memoryCache is an in-memory CacheService for tests; failing toggles every
// operation into an error to exercise the degradation paths.
type memoryCache struct {
	flags   map[string]bool
	failing bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{flags: make(map[string]bool)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.failing {
		return errors.New("cache unavailable")
	}
	if b, ok := value.(bool); ok {
		c.flags[key] = b
	}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.failing {
		return errors.New("cache unavailable")
	}
	b, ok := c.flags[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	if p, ok := dest.(*bool); ok {
		*p = b
	}
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	if c.failing {
		return errors.New("cache unavailable")
	}
	delete(c.flags, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func newRoomFixture(t *testing.T) (*mockRepository, *memoryCache, *stubNotifier, VirtualRoomService) {
	t.Helper()
	repo := newMockRepository()
	mc := newMemoryCache()
	notifier := &stubNotifier{}
	svc := NewVirtualRoomService(repo, mc, testLogger(), notifier)
	return repo, mc, notifier, svc
}

func TestOpenRoom_StaffOnly(t *testing.T) {
	_, _, _, svc := newRoomFixture(t)

	_, err := svc.Open(context.Background(), 10, "student-1", models.RoleStudent)
	assert.True(t, IsForbidden(err))
}

func TestOpenRoom_RequiresPublishedSimulation(t *testing.T) {
	repo, _, _, svc := newRoomFixture(t)

	sim := publishedSimulation(10)
	sim.Status = models.SimulationDraft
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)

	_, err := svc.Open(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationNotPublished)
}

func TestOpenRoom_SecondOpenRejected(t *testing.T) {
	repo, _, _, svc := newRoomFixture(t)

	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(publishedSimulation(10), nil)
	repo.virtualRooms.On("GetOpenBySimulation", mock.Anything, uint(10)).
		Return(&models.VirtualRoom{ID: 1, SimulationID: 10}, nil)

	_, err := svc.Open(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrVirtualRoomAlreadyOpen)
}

func TestOpenRoom_CachesOpenFlagAndNotifies(t *testing.T) {
	repo, mc, notifier, svc := newRoomFixture(t)

	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(publishedSimulation(10), nil)
	repo.virtualRooms.On("GetOpenBySimulation", mock.Anything, uint(10)).
		Return(nil, gorm.ErrRecordNotFound)
	repo.virtualRooms.On("Create", mock.Anything, mock.AnythingOfType("*models.VirtualRoom")).Return(nil)

	room, err := svc.Open(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", room.OpenedBy)
	assert.True(t, mc.flags["virtual_room:open:10"])
	assert.Equal(t, 1, notifier.roomOpened)

	// Subsequent checks hit the cached flag; no further store reads needed.
	assert.True(t, svc.IsOpen(context.Background(), 10))
}

func TestCloseRoom_AlreadyClosed(t *testing.T) {
	repo, _, _, svc := newRoomFixture(t)

	closedAt := time.Now().Add(-time.Minute)
	repo.virtualRooms.On("GetByID", mock.Anything, uint(1)).
		Return(&models.VirtualRoom{ID: 1, SimulationID: 10, ClosedAt: &closedAt}, nil)

	err := svc.CloseRoom(context.Background(), 1, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrVirtualRoomClosed)
}

func TestCloseRoom_ClearsOpenFlag(t *testing.T) {
	repo, mc, _, svc := newRoomFixture(t)

	mc.flags["virtual_room:open:10"] = true
	room := &models.VirtualRoom{ID: 1, SimulationID: 10}
	repo.virtualRooms.On("GetByID", mock.Anything, uint(1)).Return(room, nil)
	repo.virtualRooms.On("Update", mock.Anything, room).Return(nil)

	require.NoError(t, svc.CloseRoom(context.Background(), 1, "teacher-1", models.RoleCollaborator))
	assert.NotNil(t, room.ClosedAt)
	assert.False(t, mc.flags["virtual_room:open:10"])
}

func TestIsOpen_FallsBackToStoreOnCacheMiss(t *testing.T) {
	repo, mc, _, svc := newRoomFixture(t)

	repo.virtualRooms.On("GetOpenBySimulation", mock.Anything, uint(10)).
		Return(&models.VirtualRoom{ID: 1, SimulationID: 10}, nil)

	assert.True(t, svc.IsOpen(context.Background(), 10))
	assert.True(t, mc.flags["virtual_room:open:10"])
}

func TestIsOpen_DegradesToClosedOnStoreFailure(t *testing.T) {
	repo, mc, _, svc := newRoomFixture(t)

	mc.failing = true
	repo.virtualRooms.On("GetOpenBySimulation", mock.Anything, uint(10)).
		Return(nil, errors.New("connection refused"))

	assert.False(t, svc.IsOpen(context.Background(), 10))
}
