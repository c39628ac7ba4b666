package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

func newQuestionFixture(t *testing.T) (*mockRepository, QuestionService) {
	t.Helper()
	repo := newMockRepository()
	svc := NewQuestionService(repo, testLogger(), validator.New())
	return repo, svc
}

func singleChoiceRequest() *CreateQuestionRequest {
	return &CreateQuestionRequest{
		Text: "What is the capital of France?",
		Type: models.SingleChoice,
		Answers: []AnswerOptionRequest{
			{Text: "Paris", IsCorrect: true, Order: 1},
			{Text: "Lyon", Order: 2},
		},
	}
}

func TestCreateQuestion_DefaultsPointsAndWeights(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	repo.questions.On("Create", mock.Anything, mock.AnythingOfType("*models.Question")).Return(nil)

	req := &CreateQuestionRequest{
		Text:     "Describe photosynthesis",
		Type:     models.OpenText,
		Keywords: []KeywordRequest{{Keyword: "chlorophyll"}},
	}

	question, err := svc.Create(context.Background(), req, "teacher-1", models.RoleCollaborator)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, question.Points, 1e-9)
	require.Len(t, question.Keywords, 1)
	assert.InDelta(t, 1.0, question.Keywords[0].Weight, 1e-9)
	assert.Equal(t, "teacher-1", question.CreatedBy)
}

func TestCreateQuestion_SingleChoiceNeedsOneCorrectOption(t *testing.T) {
	_, svc := newQuestionFixture(t)

	req := singleChoiceRequest()
	req.Answers[1].IsCorrect = true

	_, err := svc.Create(context.Background(), req, "teacher-1", models.RoleCollaborator)
	assert.True(t, IsValidation(err))
}

func TestCreateQuestion_ChoiceNeedsTwoOptions(t *testing.T) {
	_, svc := newQuestionFixture(t)

	req := singleChoiceRequest()
	req.Answers = req.Answers[:1]

	_, err := svc.Create(context.Background(), req, "teacher-1", models.RoleCollaborator)
	assert.True(t, IsValidation(err))
}

func TestCreateQuestion_StudentMayAuthorOwnQuestions(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	repo.questions.On("Create", mock.Anything, mock.AnythingOfType("*models.Question")).Return(nil)

	question, err := svc.Create(context.Background(), singleChoiceRequest(), "student-1", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "student-1", question.CreatedBy)
}

func TestUpdateQuestion_OnlyCreatorOrAdmin(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	existing := &models.Question{
		ID: 4, Text: "Old", Type: models.OpenText, Points: 2, CreatedBy: "teacher-1",
	}
	repo.questions.On("GetByIDWithDetails", mock.Anything, uint(4)).Return(existing, nil)

	newText := "New"
	_, err := svc.Update(context.Background(), 4, &UpdateQuestionRequest{Text: &newText}, "teacher-2", models.RoleCollaborator)
	assert.True(t, IsForbidden(err))

	repo.questions.On("Update", mock.Anything, existing).Return(nil)
	updated, err := svc.Update(context.Background(), 4, &UpdateQuestionRequest{Text: &newText}, "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Text)
}

func TestUpdateQuestion_ReplacesAnswerSet(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	existing := &models.Question{
		ID:        4,
		Text:      "Pick one",
		Type:      models.SingleChoice,
		Points:    2,
		CreatedBy: "teacher-1",
		Answers: []models.AnswerOption{
			{ID: 1, QuestionID: 4, Text: "A", IsCorrect: true},
			{ID: 2, QuestionID: 4, Text: "B"},
		},
	}
	repo.questions.On("GetByIDWithDetails", mock.Anything, uint(4)).Return(existing, nil)
	repo.questions.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.Update(context.Background(), 4, &UpdateQuestionRequest{
		Answers: []AnswerOptionRequest{
			{Text: "C", Order: 1},
			{Text: "D", IsCorrect: true, Order: 2},
		},
	}, "teacher-1", models.RoleCollaborator)
	require.NoError(t, err)
	require.Len(t, updated.Answers, 2)
	assert.Equal(t, "D", updated.Answers[1].Text)
	assert.True(t, updated.Answers[1].IsCorrect)
}

func TestUpdateQuestion_InvalidResultRejected(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	existing := &models.Question{
		ID: 4, Text: "Pick one", Type: models.SingleChoice, Points: 2, CreatedBy: "teacher-1",
		Answers: []models.AnswerOption{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
		},
	}
	repo.questions.On("GetByIDWithDetails", mock.Anything, uint(4)).Return(existing, nil)

	// Dropping every correct option leaves the question unanswerable.
	_, err := svc.Update(context.Background(), 4, &UpdateQuestionRequest{
		Answers: []AnswerOptionRequest{{Text: "A"}, {Text: "B"}},
	}, "teacher-1", models.RoleCollaborator)
	assert.True(t, IsValidation(err))
	repo.questions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteQuestion_OnlyCreatorOrAdmin(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	existing := &models.Question{ID: 4, Text: "Q", Type: models.OpenText, Points: 1, CreatedBy: "teacher-1"}
	repo.questions.On("GetByIDWithDetails", mock.Anything, uint(4)).Return(existing, nil)

	err := svc.Delete(context.Background(), 4, "teacher-2", models.RoleCollaborator)
	assert.True(t, IsForbidden(err))

	repo.questions.On("Delete", mock.Anything, uint(4)).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), 4, "teacher-1", models.RoleCollaborator))
}

func TestGetQuestion_StaffSeesAny(t *testing.T) {
	repo, svc := newQuestionFixture(t)

	existing := &models.Question{ID: 4, Text: "Q", Type: models.OpenText, Points: 1, CreatedBy: "teacher-1"}
	repo.questions.On("GetByIDWithDetails", mock.Anything, uint(4)).Return(existing, nil)

	question, err := svc.GetByID(context.Background(), 4, "teacher-2", models.RoleCollaborator)
	require.NoError(t, err)
	assert.Equal(t, uint(4), question.ID)

	_, err = svc.GetByID(context.Background(), 4, "student-1", models.RoleStudent)
	assert.True(t, IsForbidden(err))
}
