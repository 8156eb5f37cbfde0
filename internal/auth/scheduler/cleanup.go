package scheduler

import (
	"sync"
	"time"

	"imagepro-backend/internal/auth/repository"

	"github.com/sirupsen/logrus"
)

// TokenCleanupScheduler periodically deletes expired refresh tokens and
// password reset tokens
type TokenCleanupScheduler struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	interval  time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewTokenCleanupScheduler(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, interval time.Duration, log logrus.FieldLogger) *TokenCleanupScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenCleanupScheduler{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		interval:  interval,
		log:       log.WithField("component", "token_cleanup"),
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (s *TokenCleanupScheduler) Start() {
	s.log.WithField("interval", s.interval.String()).Info("starting token cleanup scheduler")

	go func() {
		s.cleanup()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-s.stopChan:
				s.log.Info("token cleanup scheduler stopped")
				return
			}
		}
	}()
}

func (s *TokenCleanupScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *TokenCleanupScheduler) cleanup() {
	now := s.now()

	refreshed, err := s.userRepo.DeleteExpiredRefreshTokens(now)
	if err != nil {
		s.log.WithError(err).Error("failed to prune refresh tokens")
	}

	resets, err := s.resetRepo.DeleteExpired(now)
	if err != nil {
		s.log.WithError(err).Error("failed to prune reset tokens")
	}

	if refreshed > 0 || resets > 0 {
		s.log.WithFields(logrus.Fields{
			"refresh_tokens": refreshed,
			"reset_tokens":   resets,
		}).Info("pruned expired tokens")
	}
}
