package models

// Question represents a single question inside a quiz
type Question struct {
	ID            int      `json:"id"`
	QuizID        int      `json:"quiz_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"` // index into Options
	Explanation   string   `json:"explanation,omitempty"`
	OrderIndex    int      `json:"order_index"`
	Points        int      `json:"points,omitempty"`
}

// CreateQuestionRequest represents a request to create a question
type CreateQuestionRequest struct {
	QuizID        int      `json:"quiz_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation,omitempty"`
	OrderIndex    int      `json:"order_index,omitempty"`
	Points        int      `json:"points,omitempty"`
}

// UpdateQuestionRequest represents a request to update a question (partial update)
type UpdateQuestionRequest struct {
	QuestionText  string   `json:"question_text,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectOption *int     `json:"correct_option,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	OrderIndex    *int     `json:"order_index,omitempty"`
	Points        *int     `json:"points,omitempty"`
}
