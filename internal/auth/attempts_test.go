package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// fakeClock is a manually advanced clock for lockout timing tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func wrongGuess() (bool, error)   { return false, nil }
func correctGuess() (bool, error) { return true, nil }

func TestAttemptTracker_FailureCountsDown(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	for i := 1; i < auth.MaxAttempts; i++ {
		result, err := tracker.Guess(session, wrongGuess)
		require.NoError(t, err)
		assert.Equal(t, auth.GuessFailure, result.Outcome)
		assert.Equal(t, auth.MaxAttempts-i, result.AttemptsRemaining)
	}
}

func TestAttemptTracker_LocksAtMaxAttempts(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	for i := 0; i < auth.MaxAttempts-1; i++ {
		_, err := tracker.Guess(session, wrongGuess)
		require.NoError(t, err)
	}

	result, err := tracker.Guess(session, wrongGuess)
	require.NoError(t, err)
	assert.Equal(t, auth.GuessLocked, result.Outcome)
	assert.Equal(t, auth.LockDuration, result.RetryAfter)
}

func TestAttemptTracker_LockedShortCircuitsEvaluation(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	for i := 0; i < auth.MaxAttempts; i++ {
		_, err := tracker.Guess(session, wrongGuess)
		require.NoError(t, err)
	}

	// Even the correct answer must not be evaluated while locked.
	evaluated := 0
	result, err := tracker.Guess(session, func() (bool, error) {
		evaluated++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, auth.GuessLocked, result.Outcome)
	assert.Zero(t, evaluated)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestAttemptTracker_LockExpiresAndCountResets(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	for i := 0; i < auth.MaxAttempts; i++ {
		_, err := tracker.Guess(session, wrongGuess)
		require.NoError(t, err)
	}

	clock.Advance(auth.LockDuration)

	status, err := tracker.Status(session)
	require.NoError(t, err)
	assert.False(t, status.Locked)
	assert.Zero(t, status.FailedCount)
	assert.Equal(t, auth.MaxAttempts, status.AttemptsRemaining)

	result, err := tracker.Guess(session, correctGuess)
	require.NoError(t, err)
	assert.Equal(t, auth.GuessSuccess, result.Outcome)
}

func TestAttemptTracker_CountdownRecomputedFromDeadline(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	for i := 0; i < auth.MaxAttempts; i++ {
		_, err := tracker.Guess(session, wrongGuess)
		require.NoError(t, err)
	}

	// A poll that fires late reports the true remaining time, not one tick
	// per poll.
	clock.Advance(12 * time.Second)
	status, err := tracker.Status(session)
	require.NoError(t, err)
	assert.True(t, status.Locked)
	assert.Equal(t, auth.LockDuration-12*time.Second, status.RetryAfter)

	clock.Advance(10 * time.Second)
	status, err = tracker.Status(session)
	require.NoError(t, err)
	assert.True(t, status.Locked)
	assert.Equal(t, auth.LockDuration-22*time.Second, status.RetryAfter)
}

func TestAttemptTracker_SuccessDiscardsSession(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	result, err := tracker.Guess(session, correctGuess)
	require.NoError(t, err)
	assert.Equal(t, auth.GuessSuccess, result.Outcome)

	_, err = tracker.Status(session)
	assert.ErrorIs(t, err, models.ErrUnknownSession)
}

func TestAttemptTracker_EvaluationErrorLeavesStateUntouched(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	_, err := tracker.Guess(session, wrongGuess)
	require.NoError(t, err)

	_, err = tracker.Guess(session, func() (bool, error) {
		return false, models.ErrUnknownStudent
	})
	assert.ErrorIs(t, err, models.ErrUnknownStudent)

	status, err := tracker.Status(session)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FailedCount)
}

func TestAttemptTracker_UnknownSession(t *testing.T) {
	tracker := auth.NewAttemptTracker()

	_, err := tracker.Guess("nope", correctGuess)
	assert.ErrorIs(t, err, models.ErrUnknownSession)

	_, err = tracker.Status("nope")
	assert.ErrorIs(t, err, models.ErrUnknownSession)
}

func TestAttemptTracker_SessionsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	first := tracker.Begin()
	second := tracker.Begin()

	for i := 0; i < auth.MaxAttempts; i++ {
		_, err := tracker.Guess(first, wrongGuess)
		require.NoError(t, err)
	}

	// Locking the first session must not affect the second.
	result, err := tracker.Guess(second, correctGuess)
	require.NoError(t, err)
	assert.Equal(t, auth.GuessSuccess, result.Outcome)
}

func TestAttemptTracker_ConcurrentGuessesDoNotLoseIncrements(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	session := tracker.Begin()

	var wg sync.WaitGroup
	for i := 0; i < auth.MaxAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.Guess(session, wrongGuess)
		}()
	}
	wg.Wait()

	status, err := tracker.Status(session)
	require.NoError(t, err)
	assert.True(t, status.Locked)
	assert.Equal(t, auth.MaxAttempts, status.FailedCount)
}

func TestAttemptTracker_SweepDropsIdleSessions(t *testing.T) {
	clock := newFakeClock()
	tracker := auth.NewAttemptTrackerWithClock(clock.Now)
	stale := tracker.Begin()

	clock.Advance(20 * time.Minute)
	fresh := tracker.Begin()

	removed := tracker.Sweep()
	assert.Equal(t, 1, removed)

	_, err := tracker.Status(stale)
	assert.ErrorIs(t, err, models.ErrUnknownSession)
	_, err = tracker.Status(fresh)
	assert.NoError(t, err)
}
