package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(sessionID string) string
}

// GuestStore persists an anonymous shopper's cart as a serialized line array
// under a single namespaced Redis key.
type GuestStore struct {
	kv  kvStore
	ttl time.Duration
}

// NewGuestStore builds a guest cart store with the provided TTL.
func NewGuestStore(kv kvStore, ttl time.Duration) *GuestStore {
	return &GuestStore{kv: kv, ttl: ttl}
}

// Load reads and parses the guest cart. A missing key yields an empty cart; an
// unparseable payload is treated as empty and the corrupt key is deleted so the
// shopper never sees a parse error.
func (g *GuestStore) Load(ctx context.Context, sessionID string) ([]Line, error) {
	key := g.kv.GuestCartKey(sessionID)
	raw, err := g.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read guest cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		_ = g.kv.Del(ctx, key)
		return nil, nil
	}
	return lines, nil
}

// Save overwrites the guest cart with the provided lines.
func (g *GuestStore) Save(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode guest cart")
	}
	if err := g.kv.Set(ctx, g.kv.GuestCartKey(sessionID), payload, g.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write guest cart")
	}
	return nil
}

// Clear deletes the guest cart key. Clearing an absent key is a no-op success.
func (g *GuestStore) Clear(ctx context.Context, sessionID string) error {
	if err := g.kv.Del(ctx, g.kv.GuestCartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest cart")
	}
	return nil
}
