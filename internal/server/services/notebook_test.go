package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotebook_LoadEmptyThenSave(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewNotebookService(nil, rm)
	ctx := context.Background()

	got, err := s.Load(ctx, "proj", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, s.Save(ctx, "u-1", "proj", "run-1", "calibrated"))

	got, err = s.Load(ctx, "proj", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "calibrated", got)
	assert.Equal(t, "u-1", rm.comments.rows["proj/run-1"].UpdatedBy)
}

func TestNotebook_Errors(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewNotebookService(nil, rm)
	ctx := context.Background()

	_, err := s.Load(ctx, "proj", "")
	assert.ErrorIs(t, err, common.ErrorInvalidPath)
	assert.ErrorIs(t, s.Save(ctx, "u-1", "a/b", "run", "x"), common.ErrorInvalidPath)

	rm.comments.getErr = errors.New("db down")
	_, err = s.Load(ctx, "proj", "run-1")
	assert.ErrorContains(t, err, "db down")

	rm.comments.saveErr = errors.New("db down")
	assert.ErrorContains(t, s.Save(ctx, "u-1", "proj", "run-1", "x"), "db down")
}
