package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/profile/domain"
	"imagepro-backend/internal/profile/dto"
	"imagepro-backend/internal/profile/repository"
	"imagepro-backend/pkg/storage"

	"github.com/sirupsen/logrus"
)

// MaxAvatarSize bounds both relayed and uploaded avatars
const MaxAvatarSize = 5 << 20

type profileUsecase struct {
	repo       repository.ProfileRepository
	store      storage.Interface
	httpClient *http.Client
	identities IdentityDeleter
	log        logrus.FieldLogger
}

// NewProfileUsecase creates a profile usecase. httpClient is used to fetch
// provider avatars and should carry a timeout.
func NewProfileUsecase(repo repository.ProfileRepository, store storage.Interface, httpClient *http.Client, identities IdentityDeleter, log logrus.FieldLogger) ProfileUsecase {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &profileUsecase{
		repo:       repo,
		store:      store,
		httpClient: httpClient,
		identities: identities,
		log:        log.WithField("component", "profile"),
	}
}

func (u *profileUsecase) GetProfile(userID string) (*domain.Profile, error) {
	profile, err := u.repo.Select(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (u *profileUsecase) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*domain.Profile, error) {
	if _, err := u.GetProfile(userID); err != nil {
		return nil, err
	}

	if err := u.repo.Update(userID, req.Fields()); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u.GetProfile(userID)
}

func (u *profileUsecase) CreateProfile(userID, email, fullName string) error {
	return u.repo.Insert(&domain.Profile{
		ID:       userID,
		Email:    email,
		FullName: fullName,
	})
}

func (u *profileUsecase) EnsureProfile(user *authdomain.User) error {
	existing, err := u.repo.Select(user.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return u.CreateProfile(user.ID, user.Email, user.Name)
}

func (u *profileUsecase) UploadAvatar(ctx context.Context, userID string, file io.Reader) (*domain.Profile, error) {
	if _, err := u.GetProfile(userID); err != nil {
		return nil, err
	}

	data, err := readLimited(file, MaxAvatarSize)
	if err != nil {
		return nil, err
	}
	if !isSupportedImage(data) {
		return nil, domain.ErrNotAnImage
	}

	_, ext := storage.DetectImageType(data)
	publicURL, err := u.storeAvatar(ctx, userID, data, ext)
	if err != nil {
		return nil, err
	}

	if err := u.repo.Update(userID, map[string]interface{}{"avatar_url": publicURL}); err != nil {
		return nil, fmt.Errorf("failed to update avatar url: %w", err)
	}

	u.log.WithField("user_id", userID).Info("avatar uploaded")
	return u.GetProfile(userID)
}

func (u *profileUsecase) DeleteAccount(ctx context.Context, userID string) error {
	objects, err := u.store.List(ctx, userID+"/")
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("failed to list stored avatars")
	}
	for _, obj := range objects {
		if err := u.store.Delete(ctx, obj.Path); err != nil {
			u.log.WithError(err).WithField("path", obj.Path).Warn("failed to delete stored avatar")
		}
	}

	if err := u.repo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := u.identities.DeleteUser(ctx, userID); err != nil {
		return err
	}

	u.log.WithField("user_id", userID).Info("account deleted")
	return nil
}

// storeAvatar writes data to {userID}/avatar.{ext}, replacing any previous
// avatar, and returns its public URL.
func (u *profileUsecase) storeAvatar(ctx context.Context, userID string, data []byte, ext string) (string, error) {
	contentType, _ := storage.DetectImageType(data)
	path := avatarPath(userID, ext)

	_, err := u.store.Upload(ctx, path, bytes.NewReader(data), storage.UploadOptions{
		ContentType: contentType,
		Size:        int64(len(data)),
		Overwrite:   true,
	})
	if err != nil {
		return "", &domain.UploadError{Path: path, Err: err}
	}

	// an avatar of another image type is now stale
	stale, err := u.store.List(ctx, userID+"/avatar.")
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("failed to list previous avatars")
	}
	for _, obj := range stale {
		if obj.Path == path {
			continue
		}
		if err := u.store.Delete(ctx, obj.Path); err != nil {
			u.log.WithError(err).WithField("path", obj.Path).Warn("failed to delete previous avatar")
		}
	}

	return u.store.PublicURL(path), nil
}

func avatarPath(userID, ext string) string {
	return userID + "/avatar." + ext
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, domain.ErrAvatarTooLarge
	}
	return data, nil
}

func isSupportedImage(data []byte) bool {
	switch http.DetectContentType(data) {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
