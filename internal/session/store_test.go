package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emandor/mocktest_service/internal/model"
)

func stores(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  NewRedisStore(rdb, time.Hour, time.Minute),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s, err := st.Load(ctx, "missing")
			require.NoError(t, err)
			assert.Equal(t, PhaseIdle, s.Phase)

			s, err = State{}.Apply(SelectPaper{Code: "1A"}, ToggleLatest{ID: "pyq5"}, StartGeneration{},
				CompleteGeneration{Test: model.GeneratedTest{ID: "t", Questions: []string{"q1", "q2"}}})
			require.NoError(t, err)
			require.NoError(t, st.Save(ctx, "sid", s))

			got, err := st.Load(ctx, "sid")
			require.NoError(t, err)
			assert.Equal(t, PhaseDisplaying, got.Phase)
			assert.Equal(t, "1A", got.Params.PaperCode)
			assert.Equal(t, []string{"pyq5"}, got.Params.Predefined)
			require.NotNil(t, got.Test)
			assert.Equal(t, []string{"q1", "q2"}, got.Test.Questions)
		})
	}
}

func TestStoreLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := st.Lock(ctx, "sid")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = st.Lock(ctx, "sid")
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = st.Lock(ctx, "other")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, st.Unlock(ctx, "sid"))
			ok, err = st.Lock(ctx, "sid")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	s, _ := State{}.Apply(SelectPaper{Code: "2B"})
	require.NoError(t, st.Save(ctx, "sid", s))

	now = now.Add(2 * time.Minute)
	got, err := st.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, got.Phase)
	assert.Empty(t, got.Params.PaperCode)
}

func TestMemoryStoreCopiesState(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	s, _ := State{}.Apply(SelectLatest{IDs: []string{"pyq1"}})
	require.NoError(t, st.Save(ctx, "sid", s))
	s.Params.Predefined[0] = "changed"

	got, _ := st.Load(ctx, "sid")
	assert.Equal(t, []string{"pyq1"}, got.Params.Predefined)
}
