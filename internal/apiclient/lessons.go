package apiclient

import (
	"context"
	"fmt"

	"github.com/coursecraft/instructor-console/internal/models"
)

// ListLessons retrieves a page of lessons belonging to a section
func (c *Client) ListLessons(ctx context.Context, sectionID int, params models.ListParams) (*models.ListResult[models.Lesson], error) {
	env, err := c.get(ctx, "/lessons", listQuery(params, map[string]int{"section_id": sectionID}))
	if err != nil {
		return nil, err
	}
	result := &models.ListResult[models.Lesson]{Total: env.total}
	if err := env.decode(&result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

// GetLesson retrieves one lesson
func (c *Client) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	env, err := c.get(ctx, fmt.Sprintf("/lessons/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var lesson models.Lesson
	if err := env.decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CreateLesson creates a lesson and returns the stored entity
func (c *Client) CreateLesson(ctx context.Context, req *models.CreateLessonRequest) (*models.Lesson, error) {
	env, err := c.post(ctx, "/lessons", req)
	if err != nil {
		return nil, err
	}
	var lesson models.Lesson
	if err := env.decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CreateLessonWithMedia creates a lesson sending the payload as multipart
// form data with the lesson's video or file attached
func (c *Client) CreateLessonWithMedia(ctx context.Context, req *models.CreateLessonRequest, media *models.Media) (*models.Lesson, error) {
	env, err := c.doMultipart(ctx, "POST", c.baseURL+"/lessons", req, media)
	if err != nil {
		return nil, err
	}
	var lesson models.Lesson
	if err := env.decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLesson updates a lesson and returns the stored entity
func (c *Client) UpdateLesson(ctx context.Context, id int, req *models.UpdateLessonRequest) (*models.Lesson, error) {
	env, err := c.put(ctx, fmt.Sprintf("/lessons/%d", id), req)
	if err != nil {
		return nil, err
	}
	var lesson models.Lesson
	if err := env.decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLessonWithMedia updates a lesson as multipart form data with an
// attached media file
func (c *Client) UpdateLessonWithMedia(ctx context.Context, id int, req *models.UpdateLessonRequest, media *models.Media) (*models.Lesson, error) {
	env, err := c.doMultipart(ctx, "PUT", fmt.Sprintf("%s/lessons/%d", c.baseURL, id), req, media)
	if err != nil {
		return nil, err
	}
	var lesson models.Lesson
	if err := env.decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson deletes a lesson
func (c *Client) DeleteLesson(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/lessons/%d", id))
}
