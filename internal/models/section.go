package models

// Section represents a group of lessons inside a course.
// Lessons and quizzes are present only on the nested course payload; the
// quizzes slice groups the quizzes owned by this section's lessons so that
// the tree builder can attach them at section level.
type Section struct {
	ID          int      `json:"id"`
	CourseID    int      `json:"course_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	OrderIndex  int      `json:"order_index"`
	Lessons     []Lesson `json:"lessons,omitempty"`
	Quizzes     []Quiz   `json:"quizzes,omitempty"`
}

// CreateSectionRequest represents a request to create a section
type CreateSectionRequest struct {
	CourseID    int    `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OrderIndex  int    `json:"order_index,omitempty"`
}

// UpdateSectionRequest represents a request to update a section (partial update)
type UpdateSectionRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	OrderIndex  *int   `json:"order_index,omitempty"`
}
