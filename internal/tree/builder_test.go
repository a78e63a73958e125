package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/instructor-console/internal/models"
)

func nestedCourse() *models.Course {
	return &models.Course{
		ID:    1,
		Title: "Go from Scratch",
		Sections: []models.Section{
			{
				ID:    10,
				Title: "Basics",
				Lessons: []models.Lesson{
					{ID: 100, SectionID: 10, Title: "Variables"},
					{ID: 101, SectionID: 10, Title: "Functions"},
				},
				Quizzes: []models.Quiz{
					{
						ID:    200,
						Title: "Basics Quiz",
						Questions: []models.Question{
							{ID: 300, QuizID: 200, QuestionText: "What is a variable?"},
							{ID: 301, QuizID: 200, QuestionText: "What is a function?"},
						},
					},
				},
			},
			{
				ID:    11,
				Title: "Concurrency",
				Lessons: []models.Lesson{
					{ID: 102, SectionID: 11, Title: "Goroutines"},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Run("nil course yields nil tree", func(t *testing.T) {
		assert.Nil(t, Build(nil))
	})

	t.Run("full hierarchy", func(t *testing.T) {
		root := Build(nestedCourse())
		require.NotNil(t, root)

		assert.Equal(t, "course-1", root.Key)
		assert.Equal(t, NodeTypeCourse, root.Type)
		assert.Equal(t, "Go from Scratch", root.Title)
		assert.False(t, root.IsLeaf)
		require.Len(t, root.Children, 2)

		basics := root.Children[0]
		assert.Equal(t, "section-10", basics.Key)
		require.Len(t, basics.Children, 3)

		// Lessons come first in payload order, then quizzes
		assert.Equal(t, "lesson-100", basics.Children[0].Key)
		assert.True(t, basics.Children[0].IsLeaf)
		assert.Equal(t, "lesson-101", basics.Children[1].Key)

		quiz := basics.Children[2]
		assert.Equal(t, "quiz-200", quiz.Key)
		assert.False(t, quiz.IsLeaf)
		require.Len(t, quiz.Children, 2)
		assert.Equal(t, "question-300", quiz.Children[0].Key)
		assert.Equal(t, "What is a variable?", quiz.Children[0].Title)
		assert.True(t, quiz.Children[0].IsLeaf)

		concurrency := root.Children[1]
		assert.Equal(t, "section-11", concurrency.Key)
		require.Len(t, concurrency.Children, 1)
		assert.Equal(t, "lesson-102", concurrency.Children[0].Key)
	})

	t.Run("missing nested slices are empty", func(t *testing.T) {
		root := Build(&models.Course{ID: 5, Title: "Empty"})
		require.NotNil(t, root)
		assert.Empty(t, root.Children)
		assert.False(t, root.IsLeaf)
	})

	t.Run("question without text falls back to key", func(t *testing.T) {
		course := &models.Course{
			ID: 1,
			Sections: []models.Section{
				{ID: 10, Quizzes: []models.Quiz{
					{ID: 20, Questions: []models.Question{{ID: 30}}},
				}},
			},
		}
		root := Build(course)
		question := root.Children[0].Children[0].Children[0]
		assert.Equal(t, "question-30", question.Title)
	})
}

func TestBuild_Deterministic(t *testing.T) {
	course := nestedCourse()

	first := Build(course)
	second := Build(course)

	firstKeys := keysOf(first)
	secondKeys := keysOf(second)
	assert.Equal(t, firstKeys, secondKeys)

	// Same entity always maps to the same key
	assert.Contains(t, firstKeys, "lesson-100")
	assert.Contains(t, firstKeys, "quiz-200")
}

func TestBuild_KeysUnique(t *testing.T) {
	root := Build(nestedCourse())

	seen := make(map[string]int)
	for _, node := range root.Flatten() {
		seen[node.Key]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "duplicate key %s", key)
	}
}

func keysOf(root *Node) []string {
	nodes := root.Flatten()
	keys := make([]string, 0, len(nodes))
	for _, node := range nodes {
		keys = append(keys, node.Key)
	}
	return keys
}
