package apiclient

import (
	"context"
	"fmt"

	"github.com/coursecraft/instructor-console/internal/models"
)

// ListSections retrieves a page of sections belonging to a course
func (c *Client) ListSections(ctx context.Context, courseID int, params models.ListParams) (*models.ListResult[models.Section], error) {
	env, err := c.get(ctx, "/sections", listQuery(params, map[string]int{"course_id": courseID}))
	if err != nil {
		return nil, err
	}
	result := &models.ListResult[models.Section]{Total: env.total}
	if err := env.decode(&result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

// GetSection retrieves one section
func (c *Client) GetSection(ctx context.Context, id int) (*models.Section, error) {
	env, err := c.get(ctx, fmt.Sprintf("/sections/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var section models.Section
	if err := env.decode(&section); err != nil {
		return nil, err
	}
	return &section, nil
}

// CreateSection creates a section and returns the stored entity
func (c *Client) CreateSection(ctx context.Context, req *models.CreateSectionRequest) (*models.Section, error) {
	env, err := c.post(ctx, "/sections", req)
	if err != nil {
		return nil, err
	}
	var section models.Section
	if err := env.decode(&section); err != nil {
		return nil, err
	}
	return &section, nil
}

// UpdateSection updates a section and returns the stored entity
func (c *Client) UpdateSection(ctx context.Context, id int, req *models.UpdateSectionRequest) (*models.Section, error) {
	env, err := c.put(ctx, fmt.Sprintf("/sections/%d", id), req)
	if err != nil {
		return nil, err
	}
	var section models.Section
	if err := env.decode(&section); err != nil {
		return nil, err
	}
	return &section, nil
}

// DeleteSection deletes a section
func (c *Client) DeleteSection(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/sections/%d", id))
}
