package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/repomanager"
)

type NotebookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotebookService(db *sql.DB, m repomanager.RepositoryManager) *NotebookService {
	return &NotebookService{db: db, repomanager: m}
}

func checkRun(project, run string) error {
	if err := checkSegment("project", project); err != nil {
		return err
	}
	return checkSegment("run", run)
}

// Load returns the comments of a run, or "" when none were saved.
func (s *NotebookService) Load(ctx context.Context, project, run string) (string, error) {
	if err := checkRun(project, run); err != nil {
		return "", err
	}

	c, err := s.repomanager.Comments(s.db).Get(ctx, project, run)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error loading comments: %w", err)
	}
	return c.Body, nil
}

func (s *NotebookService) Save(ctx context.Context, userID, project, run, body string) error {
	if err := checkRun(project, run); err != nil {
		return err
	}

	_, err := s.repomanager.Comments(s.db).Save(ctx, &models.RunComment{
		Project:   project,
		Run:       run,
		Body:      body,
		UpdatedBy: userID,
	})
	if err != nil {
		return fmt.Errorf("error saving comments: %w", err)
	}
	return nil
}
