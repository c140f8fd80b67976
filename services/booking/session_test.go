package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpos-backend/models"
)

func exerciseStore(t *testing.T, store SessionStore) {
	ctx := context.Background()
	w := New(uuid.New(), uuid.New(), models.RoleStaff)
	require.NoError(t, w.SetDate("2026-03-11", testNow))
	require.NoError(t, w.SetTime("09:00"))
	require.NoError(t, w.SelectService(ServiceSnapshot{ID: uuid.New(), Name: "Cut", Price: 50, Duration: 30}))
	require.NoError(t, w.TogglePreferredStaff(uuid.New()))
	w.Step = StepStaff

	require.NoError(t, store.Save(ctx, w))

	loaded, err := store.Load(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Step, loaded.Step)
	assert.Equal(t, w.Draft, loaded.Draft)
	assert.Equal(t, *w.Service, *loaded.Service)
	assert.Equal(t, w.CompanyID, loaded.CompanyID)

	require.NoError(t, store.Delete(ctx, w.ID))
	_, err = store.Load(ctx, w.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore(t *testing.T) {
	exerciseStore(t, NewMemorySessionStore(time.Hour))
}

func TestMemorySessionStore_Expires(t *testing.T) {
	store := NewMemorySessionStore(time.Millisecond)
	w := New(uuid.New(), uuid.New(), models.RoleCompanyOwner)
	require.NoError(t, store.Save(context.Background(), w))
	time.Sleep(5 * time.Millisecond)
	_, err := store.Load(context.Background(), w.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_SweepsAbandonedSessions(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore(time.Hour)
	store.now = func() time.Time { return clock }

	abandoned := New(uuid.New(), uuid.New(), models.RoleCompanyOwner)
	require.NoError(t, store.Save(ctx, abandoned))
	recent := New(uuid.New(), uuid.New(), models.RoleCompanyOwner)
	clock = clock.Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, recent))
	assert.Len(t, store.sessions, 2)

	clock = clock.Add(45 * time.Minute)
	fresh := New(uuid.New(), uuid.New(), models.RoleCompanyOwner)
	require.NoError(t, store.Save(ctx, fresh))

	assert.Len(t, store.sessions, 2)
	assert.NotContains(t, store.sessions, abandoned.ID)
	_, err := store.Load(ctx, recent.ID)
	assert.NoError(t, err)
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisSessionStore(client, 30*time.Minute)
	exerciseStore(t, store)

	w := New(uuid.New(), uuid.New(), models.RoleCompanyOwner)
	require.NoError(t, store.Save(context.Background(), w))
	assert.Equal(t, 30*time.Minute, mr.TTL(sessionKeyPrefix+w.ID))

	mr.FastForward(31 * time.Minute)
	_, err := store.Load(context.Background(), w.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
