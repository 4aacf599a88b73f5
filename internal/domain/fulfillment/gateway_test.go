package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedFetcher serves fixed pages keyed by token and counts calls
type pagedFetcher struct {
	pages map[string][]int
	next  map[string]string
	fail  map[string]error
	calls []string
}

func (f *pagedFetcher) fetch(_ context.Context, token string) ([]int, string, error) {
	f.calls = append(f.calls, token)
	if err, ok := f.fail[token]; ok {
		return nil, "", err
	}
	return f.pages[token], f.next[token], nil
}

func newPagedFetcher() *pagedFetcher {
	return &pagedFetcher{
		pages: map[string][]int{"": {1, 2}, "p2": {3, 4}, "p3": {5}},
		next:  map[string]string{"": "p2", "p2": "p3"},
		fail:  map[string]error{},
	}
}

func TestPages(t *testing.T) {
	t.Run("walks every page until the next token is empty", func(t *testing.T) {
		f := newPagedFetcher()
		result := Collect(Pages(context.Background(), f.fetch))

		items, ok := result.Value()
		require.True(t, ok)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
		assert.Equal(t, []string{"", "p2", "p3"}, f.calls)
	})

	t.Run("is lazy and stops fetching on early break", func(t *testing.T) {
		f := newPagedFetcher()
		seq := Pages(context.Background(), f.fetch)
		assert.Empty(t, f.calls)

		var got []int
		for item, err := range seq {
			require.NoError(t, err)
			got = append(got, item)
			if len(got) == 2 {
				break
			}
		}

		assert.Equal(t, []int{1, 2}, got)
		assert.Equal(t, []string{""}, f.calls)
	})

	t.Run("restarts from the first page when ranged again", func(t *testing.T) {
		f := newPagedFetcher()
		seq := Pages(context.Background(), f.fetch)

		first := Collect(seq)
		second := Collect(seq)

		a, _ := first.Value()
		b, _ := second.Value()
		assert.Equal(t, a, b)
		assert.Equal(t, []string{"", "p2", "p3", "", "p2", "p3"}, f.calls)
	})

	t.Run("yields a page error once and ends", func(t *testing.T) {
		f := newPagedFetcher()
		boom := errors.New("boom")
		f.fail["p2"] = boom

		var items []int
		var errs []error
		for item, err := range Pages(context.Background(), f.fetch) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			items = append(items, item)
		}

		assert.Equal(t, []int{1, 2}, items)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], boom)
	})

	t.Run("stops before fetching when context is canceled", func(t *testing.T) {
		f := newPagedFetcher()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := Collect(Pages(ctx, f.fetch))

		assert.True(t, result.IsTransportError())
		assert.ErrorIs(t, result.Err(), context.Canceled)
		assert.Empty(t, f.calls)
	})
}

func TestCollect(t *testing.T) {
	t.Run("discards partial results on error", func(t *testing.T) {
		f := newPagedFetcher()
		f.fail["p3"] = ErrProviderUnavailable

		result := Collect(Pages(context.Background(), f.fetch))

		items, ok := result.Value()
		assert.False(t, ok)
		assert.Nil(t, items)
		assert.ErrorIs(t, result.Err(), ErrProviderUnavailable)
	})

	t.Run("empty sequence is a success", func(t *testing.T) {
		f := &pagedFetcher{pages: map[string][]int{}, next: map[string]string{}, fail: map[string]error{}}

		result := Collect(Pages(context.Background(), f.fetch))

		items, ok := result.Value()
		assert.True(t, ok)
		assert.Empty(t, items)
	})
}
