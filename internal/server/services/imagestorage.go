package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/cryptox"
	"github.com/dmitrijs2005/labdrive/internal/server/config"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
)

// ImageStorageService issues read tokens for a project's image area.
// Tokens look like "sp=r&se=<RFC3339 expiry>&sig=<hex hmac>".
type ImageStorageService struct {
	secret   []byte
	endpoint string
	bucket   string
	validity time.Duration
	clock    clock.Clock
}

func NewImageStorageService(cfg *config.Config, clk clock.Clock) *ImageStorageService {
	return &ImageStorageService{
		secret:   []byte(cfg.SecretKey),
		endpoint: strings.TrimRight(cfg.S3BaseEndpoint, "/"),
		bucket:   cfg.S3Bucket,
		validity: cfg.ImageStorageValidityDuration,
		clock:    clk,
	}
}

func signedPart(expiry time.Time) string {
	return "sp=r&se=" + expiry.UTC().Format(time.RFC3339)
}

func signaturePayload(project, part string) string {
	return project + "\n" + part
}

// Issue returns the base URL and a fresh token for project.
func (s *ImageStorageService) Issue(project string) (*models.ImageStorage, error) {
	prefix, err := ImagePrefix(project)
	if err != nil {
		return nil, err
	}

	part := signedPart(s.clock.Now().Add(s.validity))
	token := part + "&sig=" + cryptox.Sign(s.secret, signaturePayload(project, part))

	return &models.ImageStorage{
		BaseURL: s.endpoint + "/" + s.bucket + "/" + strings.TrimSuffix(prefix, "/"),
		Token:   token,
	}, nil
}

// Verify checks that token was issued for project and has not expired.
func (s *ImageStorageService) Verify(project, token string) error {
	q, err := url.ParseQuery(token)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	expiry, err := time.Parse(time.RFC3339, q.Get("se"))
	if err != nil || q.Get("sp") != "r" {
		return common.ErrInvalidToken
	}

	part := signedPart(expiry)
	if !cryptox.VerifySignature(s.secret, signaturePayload(project, part), q.Get("sig")) {
		return common.ErrInvalidToken
	}
	if !s.clock.Now().Before(expiry) {
		return common.ErrTokenExpired
	}
	return nil
}
