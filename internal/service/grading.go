package service

import (
	"fmt"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"sort"
)

// AnswerInput 单题作答
type AnswerInput struct {
	QuestionID        uint   `json:"questionId"`
	SelectedOptionIDs []uint `json:"selectedOptionIds"`
}

// GradeOutcome 判分结果
type GradeOutcome struct {
	Score      int                  `json:"score"`
	Total      int                  `json:"total"`
	Percentage int                  `json:"percentage"`
	Passed     bool                 `json:"passed"`
	Details    []model.AnswerDetail `json:"details"`
}

// ValidateAnswers 答案列表必须存在，questionId 非零且不重复
func ValidateAnswers(answers []AnswerInput) error {
	if answers == nil {
		return fmt.Errorf("%w: answers is required", util.ErrInvalidAnswers)
	}
	seen := make(map[uint]bool, len(answers))
	for i, a := range answers {
		if a.QuestionID == 0 {
			return fmt.Errorf("%w: answers[%d].questionId is required", util.ErrInvalidAnswers, i)
		}
		if seen[a.QuestionID] {
			return fmt.Errorf("%w: question %d answered twice", util.ErrInvalidAnswers, a.QuestionID)
		}
		seen[a.QuestionID] = true
	}
	return nil
}

// GradeQuiz 全对才算对：提交的选项集合必须与正确选项集合完全相同。
// 未作答视为空选择；没有正确选项的题目只有空选择才算对。
func GradeQuiz(quiz *model.Quiz, answers []AnswerInput) GradeOutcome {
	selected := make(map[uint][]uint, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOptionIDs
	}

	details := make([]model.AnswerDetail, 0, len(quiz.Questions))
	correctCount := 0
	for _, q := range quiz.Questions {
		correct := make([]uint, 0, len(q.Options))
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct = append(correct, opt.ID)
			}
		}
		chosen := toSortedSet(selected[q.ID])
		sort.Slice(correct, func(i, j int) bool { return correct[i] < correct[j] })

		ok := equalIDs(chosen, correct)
		if ok {
			correctCount++
		}
		details = append(details, model.AnswerDetail{
			QuestionID:        q.ID,
			SelectedOptionIDs: chosen,
			CorrectOptionIDs:  correct,
			IsCorrect:         ok,
		})
	}

	total := len(quiz.Questions)
	percentage := util.Percentage(correctCount, total)
	return GradeOutcome{
		Score:      correctCount,
		Total:      total,
		Percentage: percentage,
		Passed:     percentage >= util.PassThreshold,
		Details:    details,
	}
}

func toSortedSet(ids []uint) []uint {
	set := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			set = append(set, id)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
