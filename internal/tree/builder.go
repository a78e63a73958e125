package tree

import (
	"github.com/coursecraft/instructor-console/internal/models"
)

// Build converts a nested course payload into the uniform tree structure.
//
// Pure and deterministic: no side effects, no network access, and the same
// input always yields structurally identical trees with the same keys.
// Missing nested slices are treated as empty. Child ordering follows the
// payload, which the API returns sorted by order_index.
//
// Shape: the root course node holds section children; each section's
// children are its lessons (leaves, in input order) followed by its quizzes,
// each quiz holding question leaf children.
func Build(course *models.Course) *Node {
	if course == nil {
		return nil
	}

	root := NewNode(NodeTypeCourse, course.ID, course.Title, course)
	root.Children = make([]*Node, 0, len(course.Sections))

	for i := range course.Sections {
		root.Children = append(root.Children, buildSection(&course.Sections[i]))
	}
	return root
}

func buildSection(section *models.Section) *Node {
	node := NewNode(NodeTypeSection, section.ID, section.Title, section)
	node.Children = make([]*Node, 0, len(section.Lessons)+len(section.Quizzes))

	for i := range section.Lessons {
		lesson := &section.Lessons[i]
		node.Children = append(node.Children,
			NewNode(NodeTypeLesson, lesson.ID, lesson.Title, lesson))
	}
	for i := range section.Quizzes {
		node.Children = append(node.Children, buildQuiz(&section.Quizzes[i]))
	}
	return node
}

func buildQuiz(quiz *models.Quiz) *Node {
	node := NewNode(NodeTypeQuiz, quiz.ID, quiz.Title, quiz)
	node.Children = make([]*Node, 0, len(quiz.Questions))

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		title := question.QuestionText
		if title == "" {
			title = Key(NodeTypeQuestion, question.ID)
		}
		node.Children = append(node.Children,
			NewNode(NodeTypeQuestion, question.ID, title, question))
	}
	return node
}
