package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// Lockout policy. Compiled-in: the login contract does not expose these as
// configuration.
const (
	MaxAttempts  = 5
	LockDuration = 30 * time.Second

	// Abandoned login sessions are swept after this much idle time.
	sessionIdleTTL = 15 * time.Minute
)

// GuessOutcome classifies the result of a submitted guess.
type GuessOutcome int

const (
	GuessSuccess GuessOutcome = iota
	GuessFailure
	GuessLocked
)

// GuessResult is the attempt tracker's verdict for one guess.
type GuessResult struct {
	Outcome           GuessOutcome
	AttemptsRemaining int           // set for GuessFailure
	RetryAfter        time.Duration // set for GuessLocked
	JustLocked        bool          // true when this guess imposed the lock
}

// AttemptStatus is a read-only snapshot of a login session's state, used by
// the countdown poll. RetryAfter is recomputed from the absolute deadline on
// every call so a late poll still reports the correct remaining time.
type AttemptStatus struct {
	Locked            bool
	FailedCount       int
	AttemptsRemaining int
	RetryAfter        time.Duration
}

// attemptEntry is the per-login-session state. lockedUntil is the zero time
// exactly when the session is active.
type attemptEntry struct {
	mu          sync.Mutex
	failedCount int
	lockedUntil time.Time
	lastSeen    time.Time
}

// AttemptTracker owns the ephemeral per-session failed-guess state. Entries
// live only in process memory; nothing here touches durable storage. Each
// entry carries its own mutex so concurrent requests for the same session are
// serialized while independent sessions never contend.
type AttemptTracker struct {
	mu      sync.RWMutex
	entries map[string]*attemptEntry
	now     func() time.Time
}

// NewAttemptTracker creates a tracker using the wall clock. Tests inject a
// fake clock with NewAttemptTrackerWithClock.
func NewAttemptTracker() *AttemptTracker {
	return NewAttemptTrackerWithClock(time.Now)
}

// NewAttemptTrackerWithClock creates a tracker with an injectable clock.
func NewAttemptTrackerWithClock(now func() time.Time) *AttemptTracker {
	return &AttemptTracker{
		entries: make(map[string]*attemptEntry),
		now:     now,
	}
}

// Begin creates a fresh attempt state and returns its opaque session id. One
// session is created each time a student is chosen from the class roster.
func (t *AttemptTracker) Begin() string {
	id := uuid.New().String()

	t.mu.Lock()
	t.entries[id] = &attemptEntry{lastSeen: t.now()}
	t.mu.Unlock()

	return id
}

// Guess runs one submitted guess through the state machine. evaluate performs
// the credential lookup and comparison; it is called only while the session
// is active, under the session's lock, so a locked session short-circuits
// before the credential store is ever consulted and concurrent guesses for
// one session cannot lose increments.
//
// If evaluate returns an error (e.g. unknown student) the state is left
// untouched and the error is returned as-is. On success the session is
// discarded.
func (t *AttemptTracker) Guess(sessionID string, evaluate func() (bool, error)) (GuessResult, error) {
	entry, err := t.entry(sessionID)
	if err != nil {
		return GuessResult{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Single clock read per evaluation.
	now := t.now()
	entry.lastSeen = now

	if entry.locked(now) {
		return GuessResult{
			Outcome:    GuessLocked,
			RetryAfter: entry.lockedUntil.Sub(now),
		}, nil
	}
	entry.reviveIfExpired(now)

	match, err := evaluate()
	if err != nil {
		return GuessResult{}, err
	}

	if match {
		t.discard(sessionID)
		return GuessResult{Outcome: GuessSuccess}, nil
	}

	entry.failedCount++
	if entry.failedCount >= MaxAttempts {
		entry.lockedUntil = now.Add(LockDuration)
		return GuessResult{
			Outcome:    GuessLocked,
			RetryAfter: LockDuration,
			JustLocked: true,
		}, nil
	}

	return GuessResult{
		Outcome:           GuessFailure,
		AttemptsRemaining: MaxAttempts - entry.failedCount,
	}, nil
}

// Status reports the session's current state for the countdown poll, applying
// the Locked -> Active transition when the deadline has passed.
func (t *AttemptTracker) Status(sessionID string) (AttemptStatus, error) {
	entry, err := t.entry(sessionID)
	if err != nil {
		return AttemptStatus{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := t.now()
	entry.lastSeen = now
	entry.reviveIfExpired(now)

	if entry.locked(now) {
		return AttemptStatus{
			Locked:      true,
			FailedCount: entry.failedCount,
			RetryAfter:  entry.lockedUntil.Sub(now),
		}, nil
	}

	return AttemptStatus{
		FailedCount:       entry.failedCount,
		AttemptsRemaining: MaxAttempts - entry.failedCount,
	}, nil
}

// Clear discards a session's state, e.g. when the student navigates away.
// Clearing an unknown session is a no-op.
func (t *AttemptTracker) Clear(sessionID string) {
	t.discard(sessionID)
}

// Sweep removes sessions idle past the session TTL and returns how many were
// dropped. Called periodically by the background cleanup manager. Entry locks
// are never taken while holding the map lock, so Sweep cannot deadlock with a
// concurrent Guess discarding its own session.
func (t *AttemptTracker) Sweep() int {
	cutoff := t.now().Add(-sessionIdleTTL)

	t.mu.RLock()
	candidates := make(map[string]*attemptEntry, len(t.entries))
	for id, entry := range t.entries {
		candidates[id] = entry
	}
	t.mu.RUnlock()

	removed := 0
	for id, entry := range candidates {
		entry.mu.Lock()
		idle := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			t.discard(id)
			removed++
		}
	}
	return removed
}

func (t *AttemptTracker) entry(sessionID string) (*attemptEntry, error) {
	t.mu.RLock()
	entry, ok := t.entries[sessionID]
	t.mu.RUnlock()
	if !ok {
		return nil, models.ErrUnknownSession
	}
	return entry, nil
}

func (t *AttemptTracker) discard(sessionID string) {
	t.mu.Lock()
	delete(t.entries, sessionID)
	t.mu.Unlock()
}

// locked reports whether the entry is in the Locked state at the given
// instant.
func (e *attemptEntry) locked(now time.Time) bool {
	return !e.lockedUntil.IsZero() && now.Before(e.lockedUntil)
}

// reviveIfExpired applies the Locked -> Active transition: once the deadline
// passes, the failure count resets to zero. Callers must hold e.mu.
func (e *attemptEntry) reviveIfExpired(now time.Time) {
	if !e.lockedUntil.IsZero() && !now.Before(e.lockedUntil) {
		e.lockedUntil = time.Time{}
		e.failedCount = 0
	}
}
