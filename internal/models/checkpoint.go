package models

// LessonCheckpoint associates a quiz with a playback position inside a
// lesson's video. Checkpoints have their own CRUD lifecycle and never appear
// in the course tree.
type LessonCheckpoint struct {
	ID          int `json:"id"`
	LessonID    int `json:"lesson_id"`
	QuizID      int `json:"quiz_id"`
	TimeInVideo int `json:"time_in_video"` // seconds from the start of the video
}

// CreateCheckpointRequest represents a request to create a lesson checkpoint
type CreateCheckpointRequest struct {
	QuizID      int `json:"quiz_id"`
	TimeInVideo int `json:"time_in_video"`
}

// UpdateCheckpointRequest represents a request to update a lesson checkpoint
type UpdateCheckpointRequest struct {
	QuizID      *int `json:"quiz_id,omitempty"`
	TimeInVideo *int `json:"time_in_video,omitempty"`
}
