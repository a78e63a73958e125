package apiclient

import (
	"context"
	"fmt"

	"github.com/coursecraft/instructor-console/internal/models"
)

// ListCourses retrieves a page of the instructor's courses
func (c *Client) ListCourses(ctx context.Context, params models.ListParams) (*models.ListResult[models.Course], error) {
	env, err := c.get(ctx, "/courses", listQuery(params, nil))
	if err != nil {
		return nil, err
	}
	result := &models.ListResult[models.Course]{Total: env.total}
	if err := env.decode(&result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCourse retrieves one course with its full nested payload
// (sections, lessons, quizzes, questions) for tree building
func (c *Client) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	env, err := c.get(ctx, fmt.Sprintf("/courses/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := env.decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a course and returns the stored entity
func (c *Client) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	env, err := c.post(ctx, "/courses", req)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := env.decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse updates a course and returns the stored entity
func (c *Client) UpdateCourse(ctx context.Context, id int, req *models.UpdateCourseRequest) (*models.Course, error) {
	env, err := c.put(ctx, fmt.Sprintf("/courses/%d", id), req)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := env.decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourseWithMedia updates a course sending the payload as multipart
// form data with an attached image or video; the server returns the entity
// with resolved media URLs
func (c *Client) UpdateCourseWithMedia(ctx context.Context, id int, req *models.UpdateCourseRequest, media *models.Media) (*models.Course, error) {
	env, err := c.doMultipart(ctx, "PUT", fmt.Sprintf("%s/courses/%d", c.baseURL, id), req, media)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := env.decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse deletes a course
func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/courses/%d", id))
}
