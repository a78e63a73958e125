package models

// ContentType represents the kind of content a lesson carries
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeText  ContentType = "text"
	ContentTypeFile  ContentType = "file"
)

// Lesson represents a single lesson inside a section
type Lesson struct {
	ID          int         `json:"id"`
	SectionID   int         `json:"section_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ContentType ContentType `json:"content_type"`
	ContentURL  string      `json:"content_url,omitempty"`
	ContentText string      `json:"content_text,omitempty"`
	Duration    int         `json:"duration"` // seconds, never negative
	IsFree      bool        `json:"is_free"`
	CanPreview  bool        `json:"can_preview"`
	OrderIndex  int         `json:"order_index"`
}

// CreateLessonRequest represents a request to create a lesson
type CreateLessonRequest struct {
	SectionID   int         `json:"section_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ContentType ContentType `json:"content_type,omitempty"`
	ContentURL  string      `json:"content_url,omitempty"`
	ContentText string      `json:"content_text,omitempty"`
	Duration    int         `json:"duration,omitempty"`
	IsFree      *bool       `json:"is_free,omitempty"`
	CanPreview  *bool       `json:"can_preview,omitempty"`
	OrderIndex  int         `json:"order_index,omitempty"`
}

// UpdateLessonRequest represents a request to update a lesson (partial update)
type UpdateLessonRequest struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	ContentType ContentType `json:"content_type,omitempty"`
	ContentURL  string      `json:"content_url,omitempty"`
	ContentText string      `json:"content_text,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	IsFree      *bool       `json:"is_free,omitempty"`
	CanPreview  *bool       `json:"can_preview,omitempty"`
	OrderIndex  *int        `json:"order_index,omitempty"`
}
