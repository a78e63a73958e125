package apiclient

import (
	"context"
	"fmt"

	"github.com/coursecraft/instructor-console/internal/models"
)

// ListQuizzes retrieves a page of quizzes belonging to a lesson
func (c *Client) ListQuizzes(ctx context.Context, lessonID int, params models.ListParams) (*models.ListResult[models.Quiz], error) {
	env, err := c.get(ctx, "/quizzes", listQuery(params, map[string]int{"lesson_id": lessonID}))
	if err != nil {
		return nil, err
	}
	result := &models.ListResult[models.Quiz]{Total: env.total}
	if err := env.decode(&result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

// GetQuiz retrieves one quiz
func (c *Client) GetQuiz(ctx context.Context, id int) (*models.Quiz, error) {
	env, err := c.get(ctx, fmt.Sprintf("/quizzes/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var quiz models.Quiz
	if err := env.decode(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CreateQuiz creates a quiz and returns the stored entity
func (c *Client) CreateQuiz(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error) {
	env, err := c.post(ctx, "/quizzes", req)
	if err != nil {
		return nil, err
	}
	var quiz models.Quiz
	if err := env.decode(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz updates a quiz and returns the stored entity
func (c *Client) UpdateQuiz(ctx context.Context, id int, req *models.UpdateQuizRequest) (*models.Quiz, error) {
	env, err := c.put(ctx, fmt.Sprintf("/quizzes/%d", id), req)
	if err != nil {
		return nil, err
	}
	var quiz models.Quiz
	if err := env.decode(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// DeleteQuiz deletes a quiz
func (c *Client) DeleteQuiz(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/quizzes/%d", id))
}
