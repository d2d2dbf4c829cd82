package comments

import (
	"context"

	"github.com/dmitrijs2005/labdrive/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, project, run string) (*models.RunComment, error)
	Save(ctx context.Context, c *models.RunComment) (*models.RunComment, error)
}
