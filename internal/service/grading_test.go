package service

import (
	"errors"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gradingQuiz() *model.Quiz {
	opt := func(id uint, correct bool) model.Option {
		o := model.Option{IsCorrect: correct}
		o.ID = id
		return o
	}
	q1 := model.Question{Type: model.SingleChoice, Options: []model.Option{opt(11, true), opt(12, false)}}
	q1.ID = 1
	q2 := model.Question{Type: model.MultipleChoice, Options: []model.Option{opt(21, false), opt(22, true), opt(23, true)}}
	q2.ID = 2
	return &model.Quiz{Questions: []model.Question{q1, q2}}
}

func TestGradeQuizAllCorrect(t *testing.T) {
	out := GradeQuiz(gradingQuiz(), []AnswerInput{
		{QuestionID: 1, SelectedOptionIDs: []uint{11}},
		{QuestionID: 2, SelectedOptionIDs: []uint{23, 22}},
	})

	assert.Equal(t, 2, out.Score)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 100, out.Percentage)
	assert.True(t, out.Passed)
	assert.Equal(t, []uint{22, 23}, out.Details[1].SelectedOptionIDs)
	assert.Equal(t, []uint{22, 23}, out.Details[1].CorrectOptionIDs)
}

func TestGradeQuizHalfCorrectFails(t *testing.T) {
	out := GradeQuiz(gradingQuiz(), []AnswerInput{
		{QuestionID: 1, SelectedOptionIDs: []uint{11}},
		{QuestionID: 2, SelectedOptionIDs: []uint{22}},
	})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 50, out.Percentage)
	assert.False(t, out.Passed)
	assert.True(t, out.Details[0].IsCorrect)
	assert.False(t, out.Details[1].IsCorrect)
}

func TestGradeQuizEmptyAnswers(t *testing.T) {
	out := GradeQuiz(gradingQuiz(), []AnswerInput{})

	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 0, out.Percentage)
	assert.False(t, out.Passed)
	for _, d := range out.Details {
		assert.Empty(t, d.SelectedOptionIDs)
		assert.False(t, d.IsCorrect)
	}
}

func TestGradeQuizSupersetIsWrong(t *testing.T) {
	out := GradeQuiz(gradingQuiz(), []AnswerInput{
		{QuestionID: 2, SelectedOptionIDs: []uint{21, 22, 23}},
	})
	assert.False(t, out.Details[1].IsCorrect)
}

func TestGradeQuizDuplicateSelectionsCollapse(t *testing.T) {
	out := GradeQuiz(gradingQuiz(), []AnswerInput{
		{QuestionID: 1, SelectedOptionIDs: []uint{11, 11}},
	})
	assert.True(t, out.Details[0].IsCorrect)
	assert.Equal(t, []uint{11}, out.Details[0].SelectedOptionIDs)
}

func TestGradeQuizIgnoresUnknownQuestions(t *testing.T) {
	out := GradeQuiz(gradingQuiz(), []AnswerInput{
		{QuestionID: 1, SelectedOptionIDs: []uint{11}},
		{QuestionID: 99, SelectedOptionIDs: []uint{1}},
	})
	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Details, 2)
}

func TestGradeQuizQuestionWithoutCorrectOption(t *testing.T) {
	q := model.Question{Options: []model.Option{{}, {}}}
	q.ID = 5
	q.Options[0].ID = 51
	q.Options[1].ID = 52
	quiz := &model.Quiz{Questions: []model.Question{q}}

	assert.True(t, GradeQuiz(quiz, []AnswerInput{}).Details[0].IsCorrect)
	assert.False(t, GradeQuiz(quiz, []AnswerInput{{QuestionID: 5, SelectedOptionIDs: []uint{51}}}).Details[0].IsCorrect)
}

func TestGradeQuizWithoutQuestions(t *testing.T) {
	out := GradeQuiz(&model.Quiz{}, []AnswerInput{})
	assert.Equal(t, 0, out.Total)
	assert.Equal(t, 0, out.Percentage)
	assert.False(t, out.Passed)
	assert.NotNil(t, out.Details)
}

func TestValidateAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []AnswerInput
		wantErr bool
	}{
		{"nil list", nil, true},
		{"empty list", []AnswerInput{}, false},
		{"zero question id", []AnswerInput{{QuestionID: 0}}, true},
		{"duplicate question", []AnswerInput{{QuestionID: 1}, {QuestionID: 1}}, true},
		{"valid", []AnswerInput{{QuestionID: 1}, {QuestionID: 2, SelectedOptionIDs: []uint{3}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswers(tt.answers)
			if tt.wantErr {
				assert.True(t, errors.Is(err, util.ErrInvalidAnswers))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
