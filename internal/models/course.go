package models

// CourseLevel represents the difficulty level of a course
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "Beginner"
	CourseLevelIntermediate CourseLevel = "Intermediate"
	CourseLevelAdvanced     CourseLevel = "Advanced"
)

// Course represents a course as returned by the instructor API.
// Sections are present only on the nested detail payload used to build the tree.
type Course struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle,omitempty"`
	Description     string      `json:"description,omitempty"`
	Price           float64     `json:"price"`
	DiscountPrice   float64     `json:"discount_price,omitempty"`
	Level           CourseLevel `json:"level,omitempty"`
	CategoryID      int         `json:"category_id,omitempty"`
	IsPublished     bool        `json:"is_published"`
	IsFeatured      bool        `json:"is_featured"`
	ThumbnailURL    string      `json:"thumbnail_url,omitempty"`
	PreviewVideoURL string      `json:"preview_video_url,omitempty"`
	DemoVideoURL    string      `json:"demo_video_url,omitempty"`
	TotalDuration   int         `json:"total_duration,omitempty"`
	Requirements    string      `json:"requirements,omitempty"`
	WhatYouLearn    string      `json:"what_you_learn,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`
	Sections        []Section   `json:"sections,omitempty"`
}

// CreateCourseRequest represents a request to create a course
//
// IsPublished is a pointer on purpose: when the instructor never touched the
// publish toggle the field is omitted and the backend applies its default.
type CreateCourseRequest struct {
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle,omitempty"`
	Description     string      `json:"description,omitempty"`
	Price           float64     `json:"price,omitempty"`
	DiscountPrice   float64     `json:"discount_price,omitempty"`
	Level           CourseLevel `json:"level,omitempty"`
	CategoryID      int         `json:"category_id,omitempty"`
	IsPublished     *bool       `json:"is_published,omitempty"`
	IsFeatured      *bool       `json:"is_featured,omitempty"`
	ThumbnailURL    string      `json:"thumbnail_url,omitempty"`
	PreviewVideoURL string      `json:"preview_video_url,omitempty"`
	Requirements    string      `json:"requirements,omitempty"`
	WhatYouLearn    string      `json:"what_you_learn,omitempty"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	Title           string      `json:"title,omitempty"`
	Subtitle        string      `json:"subtitle,omitempty"`
	Description     string      `json:"description,omitempty"`
	Price           *float64    `json:"price,omitempty"`
	DiscountPrice   *float64    `json:"discount_price,omitempty"`
	Level           CourseLevel `json:"level,omitempty"`
	CategoryID      int         `json:"category_id,omitempty"`
	IsPublished     *bool       `json:"is_published,omitempty"`
	IsFeatured      *bool       `json:"is_featured,omitempty"`
	ThumbnailURL    string      `json:"thumbnail_url,omitempty"`
	PreviewVideoURL string      `json:"preview_video_url,omitempty"`
	DemoVideoURL    string      `json:"demo_video_url,omitempty"`
	Requirements    string      `json:"requirements,omitempty"`
	WhatYouLearn    string      `json:"what_you_learn,omitempty"`
}
