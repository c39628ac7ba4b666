package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== AGGREGATE REPOSITORY =====

type mockRepository struct {
	simulations   *mockSimulationRepo
	questions     *mockQuestionRepo
	assignments   *mockAssignmentRepo
	sessions      *mockSessionRepo
	results       *mockResultRepo
	users         *mockUserRepo
	groups        *mockGroupRepo
	virtualRooms  *mockVirtualRoomRepo
	notifications *mockNotificationRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		simulations:   new(mockSimulationRepo),
		questions:     new(mockQuestionRepo),
		assignments:   new(mockAssignmentRepo),
		sessions:      new(mockSessionRepo),
		results:       new(mockResultRepo),
		users:         new(mockUserRepo),
		groups:        new(mockGroupRepo),
		virtualRooms:  new(mockVirtualRoomRepo),
		notifications: new(mockNotificationRepo),
	}
}

func (m *mockRepository) Simulation() repositories.SimulationRepository    { return m.simulations }
func (m *mockRepository) Question() repositories.QuestionRepository        { return m.questions }
func (m *mockRepository) Assignment() repositories.AssignmentRepository   { return m.assignments }
func (m *mockRepository) Session() repositories.SessionRepository         { return m.sessions }
func (m *mockRepository) Result() repositories.ResultRepository           { return m.results }
func (m *mockRepository) User() repositories.UserRepository               { return m.users }
func (m *mockRepository) Group() repositories.GroupRepository             { return m.groups }
func (m *mockRepository) VirtualRoom() repositories.VirtualRoomRepository { return m.virtualRooms }
func (m *mockRepository) Notification() repositories.NotificationRepository {
	return m.notifications
}

// Transaction runs fn against the same mocks, which is enough to assert the
// writes that happen inside it.
func (m *mockRepository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

// ===== SIMULATION =====

type mockSimulationRepo struct{ mock.Mock }

func (m *mockSimulationRepo) Create(ctx context.Context, sim *models.Simulation) error {
	return m.Called(ctx, sim).Error(0)
}

func (m *mockSimulationRepo) GetByID(ctx context.Context, id uint) (*models.Simulation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Simulation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSimulationRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Simulation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Simulation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSimulationRepo) Update(ctx context.Context, sim *models.Simulation) error {
	return m.Called(ctx, sim).Error(0)
}

func (m *mockSimulationRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSimulationRepo) List(ctx context.Context, filters repositories.SimulationFilters) ([]*models.Simulation, int64, error) {
	args := m.Called(ctx, filters)
	var sims []*models.Simulation
	if v := args.Get(0); v != nil {
		sims = v.([]*models.Simulation)
	}
	return sims, args.Get(1).(int64), args.Error(2)
}

func (m *mockSimulationRepo) UpdateStatus(ctx context.Context, id uint, status models.SimulationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockSimulationRepo) HasResults(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSimulationRepo) GetQuestionCount(ctx context.Context, id uint) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockSimulationRepo) AddQuestion(ctx context.Context, sq *models.SimulationQuestion) error {
	return m.Called(ctx, sq).Error(0)
}

func (m *mockSimulationRepo) RemoveQuestion(ctx context.Context, simulationID, questionID uint) error {
	return m.Called(ctx, simulationID, questionID).Error(0)
}

func (m *mockSimulationRepo) GetQuestions(ctx context.Context, simulationID uint) ([]*models.SimulationQuestion, error) {
	args := m.Called(ctx, simulationID)
	if v := args.Get(0); v != nil {
		return v.([]*models.SimulationQuestion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSimulationRepo) UpdateQuestionOverride(ctx context.Context, simulationID, questionID uint, customPoints, customNegativePoints *float64) error {
	return m.Called(ctx, simulationID, questionID, customPoints, customNegativePoints).Error(0)
}

// ===== QUESTION =====

type mockQuestionRepo struct{ mock.Mock }

func (m *mockQuestionRepo) Create(ctx context.Context, q *models.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionRepo) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionRepo) Update(ctx context.Context, q *models.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockQuestionRepo) GetKeywords(ctx context.Context, questionID uint) ([]models.QuestionKeyword, error) {
	args := m.Called(ctx, questionID)
	if v := args.Get(0); v != nil {
		return v.([]models.QuestionKeyword), args.Error(1)
	}
	return nil, args.Error(1)
}

// ===== ASSIGNMENT =====

type mockAssignmentRepo struct{ mock.Mock }

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.SimulationAssignment) error {
	return m.Called(ctx, assignment).Error(0)
}

func (m *mockAssignmentRepo) CreateBatch(ctx context.Context, assignments []*models.SimulationAssignment) error {
	return m.Called(ctx, assignments).Error(0)
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, id uint) (*models.SimulationAssignment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationAssignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssignmentRepo) GetByIDWithSimulation(ctx context.Context, id uint) (*models.SimulationAssignment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationAssignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssignmentRepo) Update(ctx context.Context, assignment *models.SimulationAssignment) error {
	return m.Called(ctx, assignment).Error(0)
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAssignmentRepo) List(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.SimulationAssignment, int64, error) {
	args := m.Called(ctx, filters)
	var assignments []*models.SimulationAssignment
	if v := args.Get(0); v != nil {
		assignments = v.([]*models.SimulationAssignment)
	}
	return assignments, args.Get(1).(int64), args.Error(2)
}

func (m *mockAssignmentRepo) GetForStudent(ctx context.Context, simulationID uint, studentID string) ([]*models.SimulationAssignment, error) {
	args := m.Called(ctx, simulationID, studentID)
	if v := args.Get(0); v != nil {
		return v.([]*models.SimulationAssignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssignmentRepo) GetBySimulation(ctx context.Context, simulationID uint, filters repositories.AssignmentFilters) ([]*models.SimulationAssignment, int64, error) {
	args := m.Called(ctx, simulationID, filters)
	var assignments []*models.SimulationAssignment
	if v := args.Get(0); v != nil {
		assignments = v.([]*models.SimulationAssignment)
	}
	return assignments, args.Get(1).(int64), args.Error(2)
}

func (m *mockAssignmentRepo) UpdateStatus(ctx context.Context, id uint, status models.AssignmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// ===== SESSION =====

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, session *models.SimulationSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id uint) (*models.SimulationSession, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) GetByIDWithAnswers(ctx context.Context, id uint) (*models.SimulationSession, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.SimulationSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) GetInProgress(ctx context.Context, simulationID uint, studentID string) (*models.SimulationSession, error) {
	args := m.Called(ctx, simulationID, studentID)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) HasInProgress(ctx context.Context, simulationID uint, studentID string) (bool, error) {
	args := m.Called(ctx, simulationID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) UpsertAnswer(ctx context.Context, answer *models.SessionAnswer) error {
	return m.Called(ctx, answer).Error(0)
}

func (m *mockSessionRepo) GetAnswers(ctx context.Context, sessionID uint) ([]*models.SessionAnswer, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.([]*models.SessionAnswer), args.Error(1)
	}
	return nil, args.Error(1)
}

// ===== RESULT =====

type mockResultRepo struct{ mock.Mock }

func (m *mockResultRepo) Create(ctx context.Context, result *models.SimulationResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *mockResultRepo) GetByID(ctx context.Context, id uint) (*models.SimulationResult, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResultRepo) GetByIDWithAnswers(ctx context.Context, id uint) (*models.SimulationResult, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.SimulationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResultRepo) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.SimulationResult, int64, error) {
	args := m.Called(ctx, filters)
	var results []*models.SimulationResult
	if v := args.Get(0); v != nil {
		results = v.([]*models.SimulationResult)
	}
	return results, args.Get(1).(int64), args.Error(2)
}

func (m *mockResultRepo) CountCompleted(ctx context.Context, simulationID uint, studentID string) (int, error) {
	args := m.Called(ctx, simulationID, studentID)
	return args.Int(0), args.Error(1)
}

func (m *mockResultRepo) GetBySimulation(ctx context.Context, simulationID uint, filters repositories.ResultFilters) ([]*models.SimulationResult, int64, error) {
	args := m.Called(ctx, simulationID, filters)
	var results []*models.SimulationResult
	if v := args.Get(0); v != nil {
		results = v.([]*models.SimulationResult)
	}
	return results, args.Get(1).(int64), args.Error(2)
}

func (m *mockResultRepo) GetStats(ctx context.Context, simulationID uint) (*repositories.SimulationStats, error) {
	args := m.Called(ctx, simulationID)
	if v := args.Get(0); v != nil {
		return v.(*repositories.SimulationStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResultRepo) GetAnswer(ctx context.Context, resultID, questionID uint) (*models.ResultAnswer, error) {
	args := m.Called(ctx, resultID, questionID)
	if v := args.Get(0); v != nil {
		return v.(*models.ResultAnswer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResultRepo) UpdateAnswer(ctx context.Context, answer *models.ResultAnswer) error {
	return m.Called(ctx, answer).Error(0)
}

func (m *mockResultRepo) UpdateTotals(ctx context.Context, result *models.SimulationResult) error {
	return m.Called(ctx, result).Error(0)
}

// ===== USER / GROUP =====

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockGroupRepo struct{ mock.Mock }

func (m *mockGroupRepo) Create(ctx context.Context, group *models.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGroupRepo) GetMemberIDs(ctx context.Context, groupID uint) ([]string, error) {
	args := m.Called(ctx, groupID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGroupRepo) AddMember(ctx context.Context, member *models.GroupMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *mockGroupRepo) RemoveMember(ctx context.Context, groupID uint, studentID string) error {
	return m.Called(ctx, groupID, studentID).Error(0)
}

// ===== VIRTUAL ROOM / NOTIFICATION =====

type mockVirtualRoomRepo struct{ mock.Mock }

func (m *mockVirtualRoomRepo) Create(ctx context.Context, room *models.VirtualRoom) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockVirtualRoomRepo) GetByID(ctx context.Context, id uint) (*models.VirtualRoom, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.VirtualRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVirtualRoomRepo) Update(ctx context.Context, room *models.VirtualRoom) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockVirtualRoomRepo) GetOpenBySimulation(ctx context.Context, simulationID uint) (*models.VirtualRoom, error) {
	args := m.Called(ctx, simulationID)
	if v := args.Get(0); v != nil {
		return v.(*models.VirtualRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *mockNotificationRepo) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	return m.Called(ctx, notifications).Error(0)
}

func (m *mockNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	var notifications []*models.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]*models.Notification)
	}
	return notifications, args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uint, recipientID string) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

// ===== SERVICE STUBS =====

// stubNotifier counts notification calls without publishing anything.
type stubNotifier struct {
	published  int
	assigned   int
	submitted  int
	regraded   int
	roomOpened int
	bulk       int
}

func (n *stubNotifier) NotifySimulationPublished(ctx context.Context, simulationID uint, publishedBy string) error {
	n.published++
	return nil
}

func (n *stubNotifier) NotifyAssignmentCreated(ctx context.Context, assignmentIDs []uint, sim *models.Simulation, studentIDs []string, startDate, endDate *time.Time, assignedBy string) error {
	n.assigned++
	return nil
}

func (n *stubNotifier) NotifySessionSubmitted(ctx context.Context, session *models.SimulationSession, sim *models.Simulation, result *models.SimulationResult) error {
	n.submitted++
	return nil
}

func (n *stubNotifier) NotifyResultRegraded(ctx context.Context, result *models.SimulationResult, questionID uint, newScore float64, gradedBy string) error {
	n.regraded++
	return nil
}

func (n *stubNotifier) NotifyVirtualRoomOpened(ctx context.Context, room *models.VirtualRoom, sim *models.Simulation) error {
	n.roomOpened++
	return nil
}

func (n *stubNotifier) SendBulkNotification(ctx context.Context, recipientIDs []string, req *NotificationRequest, senderID string) error {
	n.bulk++
	return nil
}

// stubRooms reports a fixed open state for every simulation.
type stubRooms struct {
	open bool
}

func (r *stubRooms) Open(ctx context.Context, simulationID uint, userID string, role models.UserRole) (*models.VirtualRoom, error) {
	return nil, nil
}

func (r *stubRooms) CloseRoom(ctx context.Context, roomID uint, userID string, role models.UserRole) error {
	return nil
}

func (r *stubRooms) IsOpen(ctx context.Context, simulationID uint) bool {
	return r.open
}

func (r *stubRooms) GetOpen(ctx context.Context, simulationID uint) (*models.VirtualRoom, error) {
	return nil, nil
}
