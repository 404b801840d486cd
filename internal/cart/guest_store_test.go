package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/redis"
)

type stubKV struct {
	values map[string]string

	getErr error
	setErr error

	deleted []string
}

func newStubKV() *stubKV {
	return &stubKV{values: map[string]string{}}
}

func (s *stubKV) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *stubKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	switch v := value.(type) {
	case []byte:
		s.values[key] = string(v)
	case string:
		s.values[key] = v
	}
	return nil
}

func (s *stubKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		s.deleted = append(s.deleted, key)
		delete(s.values, key)
	}
	return nil
}

func (s *stubKV) GuestCartKey(sessionID string) string {
	return "mr:cart:guest:" + sessionID
}

func TestGuestStoreMissingKeyYieldsEmptyCart(t *testing.T) {
	store := NewGuestStore(newStubKV(), time.Hour)

	lines, err := store.Load(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGuestStoreRoundTrip(t *testing.T) {
	kv := newStubKV()
	store := NewGuestStore(kv, time.Hour)

	in := []Line{{ProductID: uuid.New(), Name: "widget", UnitPriceCents: 500, Quantity: 2}}
	require.NoError(t, store.Save(context.Background(), "g-1", in))

	out, err := store.Load(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestGuestStoreCorruptPayloadIsDiscarded(t *testing.T) {
	kv := newStubKV()
	kv.values["mr:cart:guest:g-1"] = "{not json"
	store := NewGuestStore(kv, time.Hour)

	lines, err := store.Load(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, []string{"mr:cart:guest:g-1"}, kv.deleted)
}

func TestGuestStoreSaveWritesEmptyArrayNotNull(t *testing.T) {
	kv := newStubKV()
	store := NewGuestStore(kv, time.Hour)

	require.NoError(t, store.Save(context.Background(), "g-1", nil))

	var decoded []Line
	require.NoError(t, json.Unmarshal([]byte(kv.values["mr:cart:guest:g-1"]), &decoded))
	assert.NotNil(t, kv.values["mr:cart:guest:g-1"])
	assert.Equal(t, "[]", kv.values["mr:cart:guest:g-1"])
}

func TestGuestStoreReadFailureSurfacesDependencyError(t *testing.T) {
	kv := newStubKV()
	kv.getErr = errors.New("connection reset")
	store := NewGuestStore(kv, time.Hour)

	_, err := store.Load(context.Background(), "g-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestGuestStoreClearRemovesKey(t *testing.T) {
	kv := newStubKV()
	kv.values["mr:cart:guest:g-1"] = "[]"
	store := NewGuestStore(kv, time.Hour)

	require.NoError(t, store.Clear(context.Background(), "g-1"))
	assert.NotContains(t, kv.values, "mr:cart:guest:g-1")
}
