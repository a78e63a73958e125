package apiclient

import (
	"context"
	"fmt"

	"github.com/coursecraft/instructor-console/internal/models"
)

// ListQuestions retrieves a page of questions belonging to a quiz
func (c *Client) ListQuestions(ctx context.Context, quizID int, params models.ListParams) (*models.ListResult[models.Question], error) {
	env, err := c.get(ctx, "/questions", listQuery(params, map[string]int{"quiz_id": quizID}))
	if err != nil {
		return nil, err
	}
	result := &models.ListResult[models.Question]{Total: env.total}
	if err := env.decode(&result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

// GetQuestion retrieves one question
func (c *Client) GetQuestion(ctx context.Context, id int) (*models.Question, error) {
	env, err := c.get(ctx, fmt.Sprintf("/questions/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var question models.Question
	if err := env.decode(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

// CreateQuestion creates a question and returns the stored entity
func (c *Client) CreateQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	env, err := c.post(ctx, "/questions", req)
	if err != nil {
		return nil, err
	}
	var question models.Question
	if err := env.decode(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion updates a question and returns the stored entity
func (c *Client) UpdateQuestion(ctx context.Context, id int, req *models.UpdateQuestionRequest) (*models.Question, error) {
	env, err := c.put(ctx, fmt.Sprintf("/questions/%d", id), req)
	if err != nil {
		return nil, err
	}
	var question models.Question
	if err := env.decode(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

// DeleteQuestion deletes a question
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/questions/%d", id))
}
