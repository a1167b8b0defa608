package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/service/catalog/domain"
)

func seeded(t *testing.T, lessons ...domain.Lesson) *LessonRepository {
	t.Helper()
	repo := NewLessonRepository()
	n, err := repo.InsertIfAbsent(context.Background(), lessons)
	require.NoError(t, err)
	require.Equal(t, len(lessons), n)
	return repo
}

func TestLessonRepository_BatchReadOmitsUnknownIDs(t *testing.T) {
	repo := seeded(t,
		domain.Lesson{ID: "b", Title: "Bio", AvailableCapacity: 2},
		domain.Lesson{ID: "a", Title: "Art", AvailableCapacity: 1},
	)

	got, err := repo.BatchRead(context.Background(), []string{"b", "missing", "a", "b"})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestLessonRepository_ConditionalDecrement(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t, domain.Lesson{ID: "f", Title: "French", AvailableCapacity: 5})

	require.NoError(t, repo.ConditionalDecrement(ctx, "f", 3))
	err := repo.ConditionalDecrement(ctx, "f", 3)
	assert.True(t, apperr.Is(err, apperr.CategoryConflict))

	l, err := repo.Get(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, 2, l.AvailableCapacity)

	assert.True(t, apperr.Is(repo.ConditionalDecrement(ctx, "missing", 1), apperr.CategoryConflict))
	assert.True(t, apperr.Is(repo.Increment(ctx, "missing", 1), apperr.CategoryNotFound))
}

func TestLessonRepository_ConcurrentDecrementNeverOversells(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t, domain.Lesson{ID: "x", Title: "X", AvailableCapacity: 25})

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.ConditionalDecrement(ctx, "x", 1) == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	l, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	assert.EqualValues(t, 25, ok.Load())
	assert.Equal(t, 0, l.AvailableCapacity)
}

func TestLessonRepository_UpdateAndInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t, domain.Lesson{ID: "m", Title: "Math", Price: 10, AvailableCapacity: 4})

	title := "Maths"
	updated, err := repo.Update(ctx, "m", domain.LessonPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Maths", updated.Title)
	assert.Equal(t, 4, updated.AvailableCapacity)

	_, err = repo.Update(ctx, "nope", domain.LessonPatch{Title: &title})
	assert.True(t, apperr.Is(err, apperr.CategoryNotFound))

	n, err := repo.InsertIfAbsent(ctx, []domain.Lesson{{ID: "m", Title: "dup"}, {ID: "n", Title: "Music"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Maths", all[0].Title)
}
