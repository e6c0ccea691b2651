// Package account owns the User record: creation at sign-in, the lazy daily
// points reset, and balance mutations. Every mutation is persisted before it
// is returned to the caller.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"promail/internal/domain"
	"promail/internal/store"
)

// DailyGrant is the balance restored by the daily reset.
const DailyGrant = 100

// Manager mediates all access to the persisted user record.
type Manager struct {
	store store.RecordStore
	now   func() time.Time
}

// NewManager creates a Manager over the given record store.
func NewManager(rs store.RecordStore) *Manager {
	return &Manager{store: rs, now: time.Now}
}

// ProfileID normalizes an email into the profile identifier scoping the
// user record.
func ProfileID(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Load reads the persisted user and applies the daily reset: when the stored
// reset day differs from today, the balance is set to exactly DailyGrant and
// persisted once. Loading on the same day a second time writes nothing.
// A record that fails to parse is treated as absent rather than fatal.
//
// The reset only runs on load; a session held across midnight keeps its
// stale balance until the next load.
func (m *Manager) Load(ctx context.Context, profileID string) (*domain.User, error) {
	raw, err := m.store.Get(ctx, store.UserKey(profileID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("account: load user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil || user.Email == "" {
		return nil, domain.ErrNotFound
	}

	today := domain.DayString(m.now())
	if user.LastResetDate != today {
		user.Points = DailyGrant
		user.LastResetDate = today
		if err := m.persist(ctx, profileID, &user); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// Create constructs and persists a new user with the full daily grant.
// The email must contain an "@"; admin status derives from the reserved
// identity and is fixed at creation.
func (m *Manager) Create(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	user := &domain.User{
		Email:         email,
		Points:        DailyGrant,
		LastResetDate: domain.DayString(m.now()),
		IsAdmin:       ProfileID(email) == domain.AdminEmail,
	}
	if err := m.persist(ctx, ProfileID(email), user); err != nil {
		return nil, err
	}
	return user, nil
}

// Debit subtracts amount from the latest persisted balance. When the balance
// is short it returns the unchanged user together with
// domain.ErrInsufficientPoints; it never clamps to zero. Reading the stored
// record here, rather than trusting a caller-held copy, keeps overlapping
// generations from losing each other's debits.
func (m *Manager) Debit(ctx context.Context, profileID string, amount int) (*domain.User, error) {
	user, err := m.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if user.Points < amount {
		return user, domain.ErrInsufficientPoints
	}
	user.Points -= amount
	if err := m.persist(ctx, profileID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Credit adds a positive amount to the latest persisted balance.
func (m *Manager) Credit(ctx context.Context, profileID string, amount int) (*domain.User, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("account: credit amount must be positive, got %d", amount)
	}
	user, err := m.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	user.Points += amount
	if err := m.persist(ctx, profileID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Clear removes the persisted user record on sign-out. The usage and visit
// logs are untouched.
func (m *Manager) Clear(ctx context.Context, profileID string) error {
	if err := m.store.Delete(ctx, store.UserKey(profileID)); err != nil {
		return fmt.Errorf("account: clear user: %w", err)
	}
	return nil
}

func (m *Manager) persist(ctx context.Context, profileID string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("account: encode user: %w", err)
	}
	if err := m.store.Put(ctx, store.UserKey(profileID), raw); err != nil {
		return fmt.Errorf("account: persist user: %w", err)
	}
	return nil
}
