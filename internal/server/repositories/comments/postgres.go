// Package comments stores notebook text per project run.
package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/dbx"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns common.ErrorNotFound when the run has no comments yet.
func (r *PostgresRepository) Get(ctx context.Context, project, run string) (*models.RunComment, error) {
	query :=
		`SELECT project, run, body, COALESCE(updated_by::text, ''), updated_at FROM run_comments
		 WHERE project = $1 AND run = $2
		 `

	c := &models.RunComment{}
	err := r.db.QueryRowContext(ctx, query, project, run).
		Scan(&c.Project, &c.Run, &c.Body, &c.UpdatedBy, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

// Save inserts or replaces the comments of c.Project/c.Run.
func (r *PostgresRepository) Save(ctx context.Context, c *models.RunComment) (*models.RunComment, error) {
	query :=
		`INSERT INTO run_comments (project, run, body, updated_by, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (project, run)
		 DO UPDATE SET body = EXCLUDED.body, updated_by = EXCLUDED.updated_by, updated_at = now()
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, c.Project, c.Run, c.Body, c.UpdatedBy).Scan(&c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}
