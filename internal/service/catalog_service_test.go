package service

import (
	"context"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
courses:
  - title: Introduction à l'IA
    slug: intro-ia
    category: ia
    difficulty: beginner
    published: true
    modules:
      - title: Deuxième module
        order: 2
        lessons:
          - title: Réseaux de neurones
      - title: Premier module
        order: 1
        lessons:
          - title: Qu'est-ce que l'IA ?
            content: "..."
            quiz:
              questions:
                - text: L'IA est-elle magique ?
                  options:
                    - text: Oui
                    - text: Non
                      correct: true
                - text: Cochez les langages
                  options:
                    - text: Go
                      correct: true
                    - text: Python
                      correct: true
                    - text: HTML
  - title: Brouillon
    slug: draft
    difficulty: advanced
badges:
  - name: Premier pas
    condition: first_lesson
`

func TestImportCatalog(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	report, err := svc.Catalog.Import(ctx, []byte(sampleCatalog))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"intro-ia", "draft"}, report.CreatedCourses)
	assert.Empty(t, report.SkippedCourses)
	assert.Zero(t, report.CreatedBadges)

	course, err := svc.Catalog.GetCourseBySlug(ctx, "intro-ia")
	require.NoError(t, err)
	require.Len(t, course.Modules, 2)
	assert.Equal(t, "Premier module", course.Modules[0].Title)
	lesson := course.Modules[0].Lessons[0]
	require.NotNil(t, lesson.Quiz)
	assert.Equal(t, lesson.Title, lesson.Quiz.Title)
	require.Len(t, lesson.Quiz.Questions, 2)
	assert.Equal(t, model.SingleChoice, lesson.Quiz.Questions[0].Type)
	assert.Equal(t, model.MultipleChoice, lesson.Quiz.Questions[1].Type)

	again, err := svc.Catalog.Import(ctx, []byte(sampleCatalog))
	require.NoError(t, err)
	assert.Empty(t, again.CreatedCourses)
	assert.ElementsMatch(t, []string{"intro-ia", "draft"}, again.SkippedCourses)
}

func TestCatalogHidesUnpublishedCourses(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	_, err := svc.Catalog.Import(ctx, []byte(sampleCatalog))
	require.NoError(t, err)

	_, err = svc.Catalog.GetCourseBySlug(ctx, "draft")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	courses, err := svc.Catalog.ListCourses(ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "intro-ia", courses[0].Slug)
	require.Len(t, courses[0].Modules, 2)
	assert.Equal(t, int64(1), courses[0].Modules[0].LessonCount)

	filtered, err := svc.Catalog.ListCourses(ctx, CourseFilter{Difficulty: "advanced"})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestImportCatalogRejectsInvalidInput(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	cases := map[string]string{
		"difficulty":   "courses:\n  - title: X\n    slug: x\n    difficulty: expert\n",
		"missing slug": "courses:\n  - title: X\n",
		"module order": "courses:\n  - title: X\n    slug: x\n    modules:\n      - title: a\n        order: 1\n      - title: b\n        order: 1\n",
		"badge":        "badges:\n  - name: X\n    condition: teleport\n",
		"yaml":         "courses: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Catalog.Import(ctx, []byte(doc))
			assert.ErrorIs(t, err, util.ErrInvalidCatalog)
		})
	}

	var count int64
	require.NoError(t, svc.DB.Model(&model.Course{}).Count(&count).Error)
	assert.Zero(t, count)
}
