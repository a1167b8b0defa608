package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonhub/internal/pkg/apperr"
	redisclient "lessonhub/internal/pkg/redis"
	"lessonhub/internal/service/catalog/domain"
)

func newTestRepo(t *testing.T) (*LessonRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo, err := NewLessonRepository(redisclient.Wrap(rdb))
	require.NoError(t, err)

	_, err = repo.InsertIfAbsent(context.Background(), []domain.Lesson{
		{ID: "b", Title: "Biology", Location: "Hendon", Price: 90, AvailableCapacity: 10},
		{ID: "a", Title: "Art", Location: "London", Price: 100, AvailableCapacity: 2},
	})
	require.NoError(t, err)
	return repo, mr
}

func TestLessonRepository_ListAndBatchRead(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	got, err := repo.BatchRead(ctx, []string{"b", "missing", "b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].AvailableCapacity)
	assert.Equal(t, 90.0, got[0].Price)
}

func TestLessonRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.True(t, apperr.Is(err, apperr.CategoryNotFound))
}

func TestLessonRepository_InsertIfAbsentSkipsExisting(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.InsertIfAbsent(ctx, []domain.Lesson{
		{ID: "a", Title: "Overwritten?", AvailableCapacity: 99},
		{ID: "c", Title: "Chemistry", AvailableCapacity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Art", a.Title)
	assert.Equal(t, 2, a.AvailableCapacity)
}

func TestLessonRepository_ConditionalDecrement(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ConditionalDecrement(ctx, "a", 2))
	assert.Equal(t, "0", mr.HGet(lessonKey("a"), "capacity"))

	err := repo.ConditionalDecrement(ctx, "a", 1)
	assert.True(t, apperr.Is(err, apperr.CategoryConflict))
	assert.Equal(t, "0", mr.HGet(lessonKey("a"), "capacity"))

	err = repo.ConditionalDecrement(ctx, "ghost", 1)
	assert.True(t, apperr.Is(err, apperr.CategoryConflict))
	assert.False(t, mr.Exists(lessonKey("ghost")))
}

func TestLessonRepository_Increment(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "a", 3))
	assert.Equal(t, "5", mr.HGet(lessonKey("a"), "capacity"))

	err := repo.Increment(ctx, "ghost", 1)
	assert.True(t, apperr.Is(err, apperr.CategoryNotFound))
}

func TestLessonRepository_Update(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	title := "Modern Art"
	price := 120.5
	l, err := repo.Update(ctx, "a", domain.LessonPatch{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Modern Art", l.Title)
	assert.Equal(t, 120.5, l.Price)
	assert.Equal(t, 2, l.AvailableCapacity)

	_, err = repo.Update(ctx, "ghost", domain.LessonPatch{Title: &title})
	assert.True(t, apperr.Is(err, apperr.CategoryNotFound))
}

func TestLessonRepository_ConcurrentDecrementNeverOversells(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.ConditionalDecrement(ctx, "b", 1) == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())
	assert.Equal(t, "0", mr.HGet(lessonKey("b"), "capacity"))
}
