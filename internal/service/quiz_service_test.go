package service

import (
	"context"
	"encoding/json"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perfectAnswers(quiz *model.Quiz) []AnswerInput {
	q1, q2 := quiz.Questions[0], quiz.Questions[1]
	return []AnswerInput{
		{QuestionID: q1.ID, SelectedOptionIDs: []uint{q1.Options[0].ID}},
		{QuestionID: q2.ID, SelectedOptionIDs: []uint{q2.Options[1].ID, q2.Options[2].ID}},
	}
}

func TestSubmitQuizPersistsResult(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc.DB, "alice")
	quiz := quizOf(createCourse(t, svc.DB, "go-basics", 2))

	answers := perfectAnswers(quiz)
	answers[1].SelectedOptionIDs = answers[1].SelectedOptionIDs[:1]

	res, err := svc.Quiz.SubmitQuiz(ctx, user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 50, res.Percentage)
	assert.False(t, res.Passed)
	assert.Empty(t, res.NewBadges)

	var stored model.QuizResult
	require.NoError(t, svc.DB.First(&stored, res.Result.ID).Error)
	assert.Equal(t, 50, stored.Percentage)

	var details []model.AnswerDetail
	require.NoError(t, json.Unmarshal(stored.Answers, &details))
	require.Len(t, details, 2)
	assert.True(t, details[0].IsCorrect)
	assert.False(t, details[1].IsCorrect)
}

func TestSubmitQuizAwardsPerfectBadgeOnce(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc.DB, "alice")
	quiz := quizOf(createCourse(t, svc.DB, "go-basics", 2))

	first, err := svc.Quiz.SubmitQuiz(ctx, user.ID, quiz.ID, perfectAnswers(quiz))
	require.NoError(t, err)
	assert.True(t, first.Passed)
	require.Len(t, first.NewBadges, 1)
	assert.Equal(t, model.BadgePerfectQuiz, first.NewBadges[0].Condition)

	second, err := svc.Quiz.SubmitQuiz(ctx, user.ID, quiz.ID, perfectAnswers(quiz))
	require.NoError(t, err)
	assert.Empty(t, second.NewBadges)

	results, err := svc.Quiz.ListResults(ctx, user.ID, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, second.Result.ID, results[0].ID)
}

func TestSubmitQuizRejectsBadInputWithoutWriting(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc.DB, "alice")
	quiz := quizOf(createCourse(t, svc.DB, "go-basics", 2))

	_, err := svc.Quiz.SubmitQuiz(ctx, user.ID, quiz.ID, nil)
	assert.ErrorIs(t, err, util.ErrInvalidAnswers)

	_, err = svc.Quiz.SubmitQuiz(ctx, user.ID, 9999, []AnswerInput{})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	var count int64
	require.NoError(t, svc.DB.Model(&model.QuizResult{}).Count(&count).Error)
	assert.Zero(t, count)
}
