package signatures

import (
	"context"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Signature) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
