// Package store persists the application's three logical records: the user
// profile, the usage log, and the visit log. Records are independent JSON
// documents addressed by fixed keys; callers read, modify, and write them
// back with no transactional guarantee across keys.
package store

import "context"

// Record keys. The user record is scoped per profile; both logs are shared.
const (
	userKeyPrefix = "promail_user:"
	UsageKey      = "promail_usage"
	VisitsKey     = "promail_stats"
)

// UserKey returns the record key holding the user for one profile.
func UserKey(profileID string) string {
	return userKeyPrefix + profileID
}

// RecordStore is the durable key-value substrate. Get returns
// domain.ErrNotFound for absent keys. Individual operations are atomic;
// read-modify-write sequences built on top of them are not, and two
// concurrent writers to the same key can lose an update. That window is
// accepted, not papered over.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
