package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

func newSimulationFixture(t *testing.T) (*mockRepository, *stubNotifier, SimulationService) {
	t.Helper()
	repo := newMockRepository()
	notifier := &stubNotifier{}
	svc := NewSimulationService(repo, testLogger(), validator.New(), notifier)
	return repo, notifier, svc
}

// ===== CREATE =====

func TestCreateSimulation_StudentLimitedToPersonal(t *testing.T) {
	_, _, svc := newSimulationFixture(t)

	_, err := svc.Create(context.Background(), &CreateSimulationRequest{
		Title: "Midterm",
		Type:  models.SimulationOfficial,
	}, "student-1", models.RoleStudent)
	assert.True(t, IsForbidden(err))
}

func TestCreateSimulation_StudentPersonalAllowed(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	repo.simulations.On("Create", mock.Anything, mock.AnythingOfType("*models.Simulation")).Return(nil)

	sim, err := svc.Create(context.Background(), &CreateSimulationRequest{
		Title: "My practice quiz",
		Type:  models.SimulationPersonal,
	}, "student-1", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, models.SimulationDraft, sim.Status)
	assert.Equal(t, models.VisibilityPrivate, sim.Visibility)
	assert.Equal(t, "student-1", sim.CreatedBy)
}

func TestCreateSimulation_InvalidType(t *testing.T) {
	_, _, svc := newSimulationFixture(t)

	_, err := svc.Create(context.Background(), &CreateSimulationRequest{
		Title: "Bad type",
		Type:  "NOT_A_TYPE",
	}, "teacher-1", models.RoleCollaborator)
	assert.True(t, IsValidation(err))
}

// ===== LIFECYCLE =====

func TestPublish_RequiresQuestions(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationDraft, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("GetQuestionCount", mock.Anything, uint(10)).Return(0, nil)

	err := svc.Publish(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationNoQuestions)
}

func TestPublish_FromDraft(t *testing.T) {
	repo, notifier, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationDraft, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("GetQuestionCount", mock.Anything, uint(10)).Return(5, nil)
	repo.simulations.On("UpdateStatus", mock.Anything, uint(10), models.SimulationPublished).Return(nil)

	err := svc.Publish(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.published)
}

func TestPublish_ArchivedCanBeRepublished(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationArchived, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("GetQuestionCount", mock.Anything, uint(10)).Return(3, nil)
	repo.simulations.On("UpdateStatus", mock.Anything, uint(10), models.SimulationPublished).Return(nil)

	assert.NoError(t, svc.Publish(context.Background(), 10, "teacher-1", models.RoleCollaborator))
}

func TestPublish_AlreadyPublishedRejected(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationPublished, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)

	err := svc.Publish(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationInvalidStatus)
}

func TestArchive_OnlyFromPublished(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationDraft, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)

	err := svc.Archive(context.Background(), 10, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationInvalidStatus)
}

func TestPublish_NotCreatorRejected(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationDraft, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)

	err := svc.Publish(context.Background(), 10, "teacher-2", models.RoleCollaborator)
	assert.True(t, IsForbidden(err))
}

func TestPublish_AdminMayManageAnySimulation(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationDraft, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("GetQuestionCount", mock.Anything, uint(10)).Return(2, nil)
	repo.simulations.On("UpdateStatus", mock.Anything, uint(10), models.SimulationPublished).Return(nil)

	assert.NoError(t, svc.Publish(context.Background(), 10, "admin-1", models.RoleAdmin))
}

// ===== DELETE =====

func TestDelete_BlockedWhenResultsExist(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationPublished, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("HasResults", mock.Anything, uint(10)).Return(true, nil)

	err := svc.Delete(context.Background(), 10, false, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationNotDeletable)
}

func TestDelete_ForceRequiresAdmin(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationPublished, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("HasResults", mock.Anything, uint(10)).Return(true, nil)

	err := svc.Delete(context.Background(), 10, true, "teacher-1", models.RoleCollaborator)
	assert.True(t, IsForbidden(err))
}

func TestDelete_AdminForceSucceeds(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationPublished, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("HasResults", mock.Anything, uint(10)).Return(true, nil)
	repo.simulations.On("Delete", mock.Anything, uint(10)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 10, true, "admin-1", models.RoleAdmin))
}

func TestDelete_NoResultsDeletesDirectly(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationDraft, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("HasResults", mock.Anything, uint(10)).Return(false, nil)
	repo.simulations.On("Delete", mock.Anything, uint(10)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 10, false, "teacher-1", models.RoleCollaborator))
}

// ===== QUESTION MANAGEMENT =====

func TestAddQuestion_OnlyInDraft(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationPublished, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)

	err := svc.AddQuestion(context.Background(), 10, &AddSimulationQuestionRequest{QuestionID: 1}, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationNotEditable)
}

func TestUpdateQuestionOverride_AllowedWhilePublished(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	points := 5.0
	sim := &models.Simulation{ID: 10, Status: models.SimulationPublished, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)
	repo.simulations.On("UpdateQuestionOverride", mock.Anything, uint(10), uint(2), &points, (*float64)(nil)).Return(nil)

	err := svc.UpdateQuestionOverride(context.Background(), 10, 2, &QuestionOverrideRequest{
		CustomPoints: &points,
	}, "teacher-1", models.RoleCollaborator)
	assert.NoError(t, err)
}

func TestUpdateQuestionOverride_BlockedWhenArchived(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{ID: 10, Status: models.SimulationArchived, CreatedBy: "teacher-1"}
	repo.simulations.On("GetByID", mock.Anything, uint(10)).Return(sim, nil)

	err := svc.UpdateQuestionOverride(context.Background(), 10, 2, &QuestionOverrideRequest{}, "teacher-1", models.RoleCollaborator)
	assert.ErrorIs(t, err, ErrSimulationNotEditable)
}

// ===== VISIBILITY =====

func TestGetByID_PublicPublishedVisibleToStudents(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{
		ID: 10, Status: models.SimulationPublished,
		Visibility: models.VisibilityPublic, CreatedBy: "teacher-1",
	}
	repo.simulations.On("GetByIDWithQuestions", mock.Anything, uint(10)).Return(sim, nil)

	_, err := svc.GetByID(context.Background(), 10, "student-1", models.RoleStudent)
	assert.NoError(t, err)
}

func TestGetByID_PrivateHiddenFromOtherStudents(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	sim := &models.Simulation{
		ID: 10, Status: models.SimulationPublished,
		Visibility: models.VisibilityPrivate, CreatedBy: "teacher-1",
	}
	repo.simulations.On("GetByIDWithQuestions", mock.Anything, uint(10)).Return(sim, nil)

	_, err := svc.GetByID(context.Background(), 10, "student-1", models.RoleStudent)
	assert.True(t, IsForbidden(err))
}

func TestList_StudentsScopedToOwnSimulations(t *testing.T) {
	repo, _, svc := newSimulationFixture(t)

	repo.simulations.On("List", mock.Anything, mock.MatchedBy(func(f repositories.SimulationFilters) bool {
		return f.CreatedBy != nil && *f.CreatedBy == "student-1"
	})).Return([]*models.Simulation{}, int64(0), nil)

	_, _, err := svc.List(context.Background(), repositories.SimulationFilters{}, "student-1", models.RoleStudent)
	require.NoError(t, err)
	repo.simulations.AssertExpectations(t)
}
