package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
)

// ImageStorageService fetches the image container capability of a project.
type ImageStorageService struct {
	api  client.API
	path string
}

func NewImageStorageService(api client.API, project string) *ImageStorageService {
	return &ImageStorageService{api: api, path: fmt.Sprintf("/data/%s/image_storage", url.PathEscape(project))}
}

func (s *ImageStorageService) Fetch(ctx context.Context) (models.ImageStorage, error) {
	var out models.ImageStorage
	if err := s.api.GetJSON(ctx, s.path, &out); err != nil {
		return models.ImageStorage{}, fmt.Errorf("fetch image storage: %w", err)
	}
	return out, nil
}
