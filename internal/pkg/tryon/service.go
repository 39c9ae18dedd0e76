// Package tryon orchestrates the virtual try-on flow: admission through the
// credit ledger, garment upload, inference, and result persistence.
package tryon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/env"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/ledger"
	"github.com/fashionai/fashionai/internal/pkg/metrics"
	"github.com/fashionai/fashionai/internal/pkg/storage"
)

var (
	ErrInsufficientCredits  = errors.New("tryon: insufficient credits")
	ErrProfilePhotoRequired = errors.New("tryon: a profile photo is required before generating")
	ErrInvalidClothType     = errors.New("tryon: invalid cloth type")
)

// GenerationCost is the ledger debit per generated image.
const GenerationCost = 1

// GenerationAction is the action label written to the usage history.
const GenerationAction = "image_generation"

var validClothTypes = map[string]bool{
	"upper":   true,
	"lower":   true,
	"overall": true,
}

// Service runs the generation flow end to end.
type Service struct {
	ledger      *ledger.Service
	store       storage.ObjectStore
	storeCfg    *storage.Config
	inference   Inference
	generations repository.GenerationRepository
	users       repository.UserRepository
	download    *http.Client
}

// NewService wires the try-on generation service.
func NewService(
	ledgerSvc *ledger.Service,
	store storage.ObjectStore,
	storeCfg *storage.Config,
	inference Inference,
	generations repository.GenerationRepository,
	users repository.UserRepository,
) *Service {
	return &Service{
		ledger:      ledgerSvc,
		store:       store,
		storeCfg:    storeCfg,
		inference:   inference,
		generations: generations,
		users:       users,
		download:    &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateTryOn produces a try-on image for the identified user. The credit
// debit is the admission check and happens before inference; the master
// identity bypasses the ledger entirely.
func (s *Service) GenerateTryOn(ctx context.Context, ident *identity.Identity, garment io.Reader, garmentContentType, clothType string) (*models.GeneratedImage, error) {
	if !validClothTypes[clothType] {
		return nil, ErrInvalidClothType
	}

	humanURL, err := s.referencePhoto(ident)
	if err != nil {
		return nil, err
	}

	if !ident.Master {
		ok, err := s.ledger.UseCredits(ident.UserID, GenerationCost, GenerationAction)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.Generations.WithLabelValues("rejected").Inc()
			return nil, ErrInsufficientCredits
		}
	}

	now := time.Now()
	garmentKey := s.storeCfg.ObjectKey("garment", extensionFor(garmentContentType), now)
	garmentURL, err := s.store.Upload(ctx, garmentKey, garment, garmentContentType)
	if err != nil {
		metrics.Generations.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("uploading garment image: %w", err)
	}

	resultURL, err := s.inference.Generate(ctx, humanURL, garmentURL, clothType)
	if err != nil {
		metrics.Generations.WithLabelValues("failed").Inc()
		return nil, err
	}

	storedURL, err := s.archiveResult(ctx, resultURL, now)
	if err != nil {
		// The generation succeeded; fall back to the provider URL rather
		// than failing the whole request.
		storedURL = resultURL
	}

	image := &models.GeneratedImage{
		UserID:     ident.UserID,
		ClothType:  clothType,
		GarmentURL: garmentURL,
		ResultURL:  storedURL,
	}
	if err := s.generations.Create(image); err != nil {
		metrics.Generations.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("recording generated image: %w", err)
	}

	metrics.Generations.WithLabelValues("ok").Inc()
	return image, nil
}

// ProfilePhotoKey builds the object key for a profile photo upload.
func (s *Service) ProfilePhotoKey(contentType string, now time.Time) string {
	return s.storeCfg.ObjectKey("profile", extensionFor(contentType), now)
}

// UploadProfilePhoto stores a reference photo and returns its public URL.
func (s *Service) UploadProfilePhoto(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	return s.store.Upload(ctx, key, body, contentType)
}

// ListGenerations returns a user's generated images, newest first.
func (s *Service) ListGenerations(userID uint, offset, limit int) ([]models.GeneratedImage, error) {
	return s.generations.ListByUser(userID, offset, limit)
}

// referencePhoto resolves the human reference image for the identity.
func (s *Service) referencePhoto(ident *identity.Identity) (string, error) {
	if ident.Master {
		if url := env.GetEnv("MASTER_PROFILE_PHOTO_URL", ""); url != "" {
			return url, nil
		}
		return "", ErrProfilePhotoRequired
	}

	user, err := s.users.GetByID(ident.UserID)
	if err != nil {
		return "", err
	}
	if user.ProfilePhotoURL == "" {
		return "", ErrProfilePhotoRequired
	}
	return user.ProfilePhotoURL, nil
}

// archiveResult downloads the provider's output and re-hosts it in our store.
func (s *Service) archiveResult(ctx context.Context, resultURL string, now time.Time) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.download.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading generated image: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	key := s.storeCfg.ObjectKey("generated", extensionFor(contentType), now)
	return s.store.Upload(ctx, key, resp.Body, contentType)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
