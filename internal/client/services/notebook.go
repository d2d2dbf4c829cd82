package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
)

// NotebookService reads and writes the comments of one run.
type NotebookService struct {
	api  client.API
	path string
}

func NewNotebookService(api client.API, project, run string) *NotebookService {
	return &NotebookService{
		api:  api,
		path: fmt.Sprintf("/data/%s/runs/%s/comments", url.PathEscape(project), url.PathEscape(run)),
	}
}

func (s *NotebookService) Load(ctx context.Context) (string, error) {
	var c models.RunComments
	if err := s.api.GetJSON(ctx, s.path, &c); err != nil {
		return "", fmt.Errorf("load comments: %w", err)
	}
	return c.Comments, nil
}

func (s *NotebookService) Save(ctx context.Context, text string) error {
	if err := s.api.PostJSON(ctx, s.path, models.RunComments{Comments: text}, nil); err != nil {
		return fmt.Errorf("save comments: %w", err)
	}
	return nil
}
