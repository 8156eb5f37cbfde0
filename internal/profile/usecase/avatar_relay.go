package usecase

import (
	"context"
	"net/http"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/profile/domain"

	"github.com/sirupsen/logrus"
)

// relayed avatars always live at {userID}/avatar.png whatever the provider
// serves, so repeated sign-ins overwrite a single object
const relayedAvatarExt = "png"

func (u *profileUsecase) RelayAvatar(ctx context.Context, user *authdomain.User) *string {
	if user == nil || user.ProviderAvatarURL == nil || *user.ProviderAvatarURL == "" {
		return nil
	}
	providerURL := *user.ProviderAvatarURL
	log := u.log.WithField("user_id", user.ID)

	// the provider URL is stored first so the profile has a usable avatar
	// even if the copy below fails
	provisional := providerURL
	google := providerURL
	err := u.repo.Upsert(&domain.Profile{
		ID:              user.ID,
		FullName:        user.Name,
		Email:           user.Email,
		AvatarURL:       &provisional,
		GoogleAvatarURL: &google,
	})
	if err != nil {
		relayFailed(log, "upsert", err)
		return nil
	}

	data, err := u.downloadAvatar(ctx, providerURL)
	if err != nil {
		relayFailed(log, "download", err)
		return nil
	}

	publicURL, err := u.storeAvatar(ctx, user.ID, data, relayedAvatarExt)
	if err != nil {
		relayFailed(log, "upload", err)
		return nil
	}

	if err := u.repo.Update(user.ID, map[string]interface{}{"avatar_url": publicURL}); err != nil {
		relayFailed(log, "update", err)
		return nil
	}

	log.WithField("avatar_url", publicURL).Info("provider avatar relayed")
	return &publicURL
}

func (u *profileUsecase) downloadAvatar(ctx context.Context, avatarURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, &domain.DownloadError{URL: avatarURL, Err: err}
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, &domain.DownloadError{URL: avatarURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.DownloadError{URL: avatarURL, StatusCode: resp.StatusCode}
	}

	data, err := readLimited(resp.Body, MaxAvatarSize)
	if err != nil {
		return nil, &domain.DownloadError{URL: avatarURL, StatusCode: resp.StatusCode, Err: err}
	}
	return data, nil
}

func relayFailed(log logrus.FieldLogger, step string, err error) {
	log.WithFields(logrus.Fields{
		"step":  step,
		"error": err.Error(),
	}).Warn("avatar relay failed")
}
