package models

// Quiz represents a quiz owned by a lesson.
// SectionID is carried redundantly so the nested course payload can group
// quizzes under their section for tree placement.
type Quiz struct {
	ID          int        `json:"id"`
	LessonID    int        `json:"lesson_id"`
	SectionID   int        `json:"section_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// CreateQuizRequest represents a request to create a quiz
type CreateQuizRequest struct {
	LessonID    int    `json:"lesson_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateQuizRequest represents a request to update a quiz (partial update)
type UpdateQuizRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}
