package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"github.com/gnbf/badminton-registry/storage"
	"github.com/gnbf/badminton-registry/validation"
)

// MediaService stores uploaded images and records their public URL on the
// owning record.
type MediaService interface {
	UploadClubLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Club, error)
	UploadPlayerPhoto(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error)
	UploadTournamentLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Tournament, error)
}

type mediaService struct {
	uploader       storage.FileUploader
	clubRepo       repositories.ClubRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
}

// NewMediaService accepts a nil uploader, in which case every upload fails
// with ErrStorageDisabled.
func NewMediaService(
	uploader storage.FileUploader,
	clubRepo repositories.ClubRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
) MediaService {
	return &mediaService{
		uploader:       uploader,
		clubRepo:       clubRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
	}
}

// ExtensionFromContentType maps the accepted image types to a file extension.
func ExtensionFromContentType(contentType string) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", validation.Field("file", "must be a JPEG, PNG, GIF or WebP image")
}

// store uploads the file under folder/id and runs record with its URL. The
// object is removed again when record fails.
func (s *mediaService) store(ctx context.Context, folder string, id int, file io.Reader, contentType string, record func(url string) error) error {
	if s.uploader == nil {
		return ErrStorageDisabled
	}
	ext, err := ExtensionFromContentType(contentType)
	if err != nil {
		return err
	}

	key := storage.ObjectKey(folder, id, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	if err := record(result.Location); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned upload", "key", key, "error", delErr)
		}
		return err
	}
	return nil
}

func (s *mediaService) UploadClubLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Club, error) {
	if _, err := s.clubRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club %d: %w", id, err)
	}
	err := s.store(ctx, "clubs", id, file, contentType, func(url string) error {
		return s.clubRepo.UpdateLogo(ctx, id, url)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return s.clubRepo.GetByID(ctx, id)
}

func (s *mediaService) UploadPlayerPhoto(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error) {
	if _, err := s.playerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	err := s.store(ctx, "players", id, file, contentType, func(url string) error {
		return s.playerRepo.UpdateImage(ctx, id, url)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return s.playerRepo.GetByID(ctx, id)
}

func (s *mediaService) UploadTournamentLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Tournament, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	err := s.store(ctx, "tournaments", id, file, contentType, func(url string) error {
		return s.tournamentRepo.UpdateLogo(ctx, id, url)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.tournamentRepo.GetByID(ctx, id)
}
