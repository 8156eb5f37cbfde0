package scheduler

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"imagepro-backend/internal/auth/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeUserRepo struct {
	repository.UserRepository
	calls  int32
	before atomic.Value
}

func (f *fakeUserRepo) DeleteExpiredRefreshTokens(now time.Time) (int64, error) {
	atomic.AddInt32(&f.calls, 1)
	f.before.Store(now)
	return 2, nil
}

type fakeResetRepo struct {
	repository.ResetTokenRepository
	calls int32
	err   error
}

func (f *fakeResetRepo) DeleteExpired(now time.Time) (int64, error) {
	atomic.AddInt32(&f.calls, 1)
	return 0, f.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCleanup_PrunesBothStores(t *testing.T) {
	users := &fakeUserRepo{}
	resets := &fakeResetRepo{err: errors.New("relation does not exist")}
	s := NewTokenCleanupScheduler(users, resets, time.Hour, quietLogger())

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.cleanup()

	assert.EqualValues(t, 1, atomic.LoadInt32(&users.calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&resets.calls))
	assert.Equal(t, fixed, users.before.Load())
}

func TestScheduler_RunsOnStartAndStops(t *testing.T) {
	users := &fakeUserRepo{}
	resets := &fakeResetRepo{}
	s := NewTokenCleanupScheduler(users, resets, 10*time.Millisecond, quietLogger())

	s.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&users.calls) >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestNewTokenCleanupScheduler_DefaultInterval(t *testing.T) {
	s := NewTokenCleanupScheduler(&fakeUserRepo{}, &fakeResetRepo{}, 0, quietLogger())
	assert.Equal(t, time.Hour, s.interval)
}
