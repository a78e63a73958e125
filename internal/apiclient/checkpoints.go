package apiclient

import (
	"context"
	"fmt"

	"github.com/coursecraft/instructor-console/internal/models"
)

// Checkpoints are a nested resource under lessons: list and create go
// through the lesson path, update and delete address the checkpoint directly.

// ListCheckpoints retrieves every checkpoint of a lesson
func (c *Client) ListCheckpoints(ctx context.Context, lessonID int) ([]models.LessonCheckpoint, error) {
	env, err := c.get(ctx, fmt.Sprintf("/lessons/%d/checkpoints", lessonID), nil)
	if err != nil {
		return nil, err
	}
	var checkpoints []models.LessonCheckpoint
	if err := env.decode(&checkpoints); err != nil {
		return nil, err
	}
	return checkpoints, nil
}

// CreateCheckpoint attaches a quiz to a playback position of a lesson
func (c *Client) CreateCheckpoint(ctx context.Context, lessonID int, req *models.CreateCheckpointRequest) (*models.LessonCheckpoint, error) {
	env, err := c.post(ctx, fmt.Sprintf("/lessons/%d/checkpoints", lessonID), req)
	if err != nil {
		return nil, err
	}
	var checkpoint models.LessonCheckpoint
	if err := env.decode(&checkpoint); err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

// UpdateCheckpoint updates a checkpoint and returns the stored entity
func (c *Client) UpdateCheckpoint(ctx context.Context, id int, req *models.UpdateCheckpointRequest) (*models.LessonCheckpoint, error) {
	env, err := c.put(ctx, fmt.Sprintf("/checkpoints/%d", id), req)
	if err != nil {
		return nil, err
	}
	var checkpoint models.LessonCheckpoint
	if err := env.decode(&checkpoint); err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

// DeleteCheckpoint deletes a checkpoint
func (c *Client) DeleteCheckpoint(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/checkpoints/%d", id))
}
