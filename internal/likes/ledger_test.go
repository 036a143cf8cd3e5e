package likes

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Like(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	ctx := context.Background()

	res, err := ledger.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.LikeCount)
	assert.False(t, res.IsMutual)

	res, err = ledger.Like(ctx, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.LikeCount)
}

func TestLedger_SelfLike(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	_, err := ledger.Like(context.Background(), 7, 7)
	assert.ErrorIs(t, err, ErrSelfLike)
}

func TestLedger_InvalidIDs(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	_, err := ledger.Like(context.Background(), 0, 2)
	assert.ErrorIs(t, err, ErrInvalidUser)
	_, err = ledger.Unlike(context.Background(), 1, -3)
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestLedger_DuplicateLikeThenUnlikeRelike(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	ctx := context.Background()

	_, err := ledger.Like(ctx, 1, 2)
	require.NoError(t, err)

	_, err = ledger.Like(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	un, err := ledger.Unlike(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, un.LikeCount)

	_, err = ledger.Like(ctx, 1, 2)
	assert.NoError(t, err)
}

func TestLedger_UnlikeWithoutLike(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	_, err := ledger.Unlike(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotLiked)

	// unliking yourself is just "not liked"
	_, err = ledger.Unlike(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestLedger_MutualLike(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	ctx := context.Background()

	first, err := ledger.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first.IsMutual)

	second, err := ledger.Like(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, second.IsMutual)

	m1, err := ledger.ListMutual(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, m1)

	m2, err := ledger.ListMutual(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, m2)

	ok, err := ledger.IsMutual(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = ledger.Unlike(ctx, 2, 1)
	require.NoError(t, err)
	m1, err = ledger.ListMutual(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, m1)
}

func TestLedger_ListMutualSorted(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	ctx := context.Background()

	for _, id := range []int64{9, 4, 6, 2} {
		_, err := ledger.Like(ctx, 1, id)
		require.NoError(t, err)
		_, err = ledger.Like(ctx, id, 1)
		require.NoError(t, err)
	}
	// one-sided edges never show up
	_, err := ledger.Like(ctx, 1, 5)
	require.NoError(t, err)
	_, err = ledger.Like(ctx, 8, 1)
	require.NoError(t, err)

	mutual, err := ledger.ListMutual(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 6, 9}, mutual)
}

func TestLedger_ListLiked(t *testing.T) {
	ledger := NewLedger(NewMemoryStore())
	ctx := context.Background()

	empty, err := ledger.ListLiked(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, id := range []int64{3, 2} {
		_, err := ledger.Like(ctx, 1, id)
		require.NoError(t, err)
	}
	liked, err := ledger.ListLiked(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, liked)
}

func TestLedger_ConcurrentLikeCreatesOneEdge(t *testing.T) {
	store := NewMemoryStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	var succeeded, conflicted atomic.Int32

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Like(ctx, 1, 2)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrAlreadyLiked):
				conflicted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), conflicted.Load())

	likers, err := store.ListByLiked(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, likers)
}

func TestLedger_ConcurrentReciprocalLikesDetectMatch(t *testing.T) {
	for i := 0; i < 50; i++ {
		ledger := NewLedger(NewMemoryStore())
		ctx := context.Background()

		var wg sync.WaitGroup
		results := make([]*LikeResult, 2)
		wg.Add(2)
		go func() { defer wg.Done(); results[0], _ = ledger.Like(ctx, 1, 2) }()
		go func() { defer wg.Done(); results[1], _ = ledger.Like(ctx, 2, 1) }()
		wg.Wait()

		require.NotNil(t, results[0])
		require.NotNil(t, results[1])
		assert.True(t, results[0].IsMutual || results[1].IsMutual)
	}
}

type failingStore struct{ *MemoryStore }

var errBoom = errors.New("boom")

func (f *failingStore) Insert(ctx context.Context, likerID, likedID int64) (bool, error) {
	return false, errors.Wrap(errBoom, "likes: insert")
}

func TestLedger_PropagatesStoreErrors(t *testing.T) {
	ledger := NewLedger(&failingStore{MemoryStore: NewMemoryStore()})
	_, err := ledger.Like(context.Background(), 1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
}

func sorted(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
