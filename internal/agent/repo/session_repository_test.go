package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assistant/server/internal/agent/model"
	pkgredis "github.com/scheme-assistant/server/pkg/redis"
)

func sampleState() *model.ConversationState {
	s := model.NewConversationState()
	s.Slots.Set(model.FieldAge, model.Int(40))
	s.Slots.Set(model.FieldState, model.String("TS"))
	s.Slots.Set(model.FieldLandOwner, model.Bool(true))
	s.StageConflicts(
		map[model.Field]model.Conflict{model.FieldAge: {From: model.Int(40), To: model.Int(45)}},
		model.Slots{model.FieldAge: model.Int(45)},
	)
	s.Present([]string{"TS_RYTHU_BANDHU"}, []string{"రైతు బంధు"})
	s.AppendHistory(model.RoleUser, "నా వయసు 45", 20)
	s.IterationCount = 3
	return s
}

// exercise runs the shared repository contract.
func exercise(t *testing.T, r model.SessionRepository) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	got, err := r.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := sampleState()
	require.NoError(t, r.Save(ctx, id, want))

	got, err = r.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Slots, got.Slots)
	assert.Equal(t, want.PendingConflicts, got.PendingConflicts)
	assert.Equal(t, want.PendingUpdates, got.PendingUpdates)
	assert.True(t, got.NeedsConfirmation)
	assert.Equal(t, want.LastPresentedSchemeIDs, got.LastPresentedSchemeIDs)
	assert.Equal(t, want.History, got.History)
	assert.Equal(t, 3, got.IterationCount)

	// last write wins
	got.IterationCount = 4
	require.NoError(t, r.Save(ctx, id, got))
	again, err := r.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, again.IterationCount)

	require.NoError(t, r.Delete(ctx, id))
	got, err = r.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionRepository(t *testing.T) {
	exercise(t, NewMemorySessionRepository(time.Hour, 0))
}

func TestMemorySessionRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySessionRepository(time.Hour, 0)

	s := sampleState()
	require.NoError(t, r.Save(ctx, "s1", s))
	s.Slots.Set(model.FieldAge, model.Int(99))

	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	age, _ := got.Slots.Int(model.FieldAge)
	assert.Equal(t, 40, age)

	got.Slots.Unset(model.FieldAge)
	again, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, again.Slots.Has(model.FieldAge))
	assert.Equal(t, 1, r.Len())
}

func TestMemorySessionRepository_Expires(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySessionRepository(20*time.Millisecond, 0)
	require.NoError(t, r.Save(ctx, "s1", sampleState()))

	time.Sleep(50 * time.Millisecond)
	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionRepository_RejectsNil(t *testing.T) {
	r := NewMemorySessionRepository(time.Hour, 0)
	assert.Error(t, r.Save(context.Background(), "s1", nil))
}

func TestRedisSessionRepository(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	cfg := pkgredis.Config{URL: url, ReadTimeout: 3, WriteTimeout: 3, DialTimeout: 5}
	rdb, err := cfg.New(context.Background())
	require.NoError(t, err)
	defer rdb.Close()

	exercise(t, NewRedisSessionRepository(rdb, time.Minute))
}
