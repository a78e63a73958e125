package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coursecraft/instructor-console/internal/models"
)

// UploadFile uploads a standalone media file (image or video) and returns
// the stored file URL. Used by forms that upload media first and reference
// the URL in a later entity update.
func (c *Client) UploadFile(ctx context.Context, media *models.Media) (string, error) {
	if media == nil {
		return "", fmt.Errorf("no file to upload")
	}
	env, err := c.doMultipart(ctx, http.MethodPost, c.baseURL+"/uploads", nil, media)
	if err != nil {
		return "", err
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := env.decode(&result); err != nil {
		return "", err
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response carried no url")
	}
	return result.URL, nil
}
