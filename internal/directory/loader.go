// internal/directory/loader.go
// Batched profile lookups for list enrichment

package directory

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

const defaultLoaderWait = 16 * time.Millisecond

// ProfileLoader coalesces concurrent profile lookups into GetProfiles batches.
// A loader caches results for its lifetime, so create one per request.
type ProfileLoader struct {
	loader *dataloader.Loader[int64, *Profile]
}

func NewProfileLoader(dir Directory) *ProfileLoader {
	return &ProfileLoader{
		loader: dataloader.NewBatchedLoader(
			profileBatchFn(dir),
			dataloader.WithWait[int64, *Profile](defaultLoaderWait),
		),
	}
}

func profileBatchFn(dir Directory) dataloader.BatchFunc[int64, *Profile] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*Profile] {
		results := make([]*dataloader.Result[*Profile], len(keys))

		profiles, err := dir.GetProfiles(ctx, keys)
		for i, key := range keys {
			switch {
			case err != nil:
				results[i] = &dataloader.Result[*Profile]{Error: err}
			case profiles[key] == nil:
				results[i] = &dataloader.Result[*Profile]{Error: ErrProfileNotFound}
			default:
				results[i] = &dataloader.Result[*Profile]{Data: profiles[key]}
			}
		}
		return results
	}
}

// Load returns the profile for userID or ErrProfileNotFound
func (l *ProfileLoader) Load(ctx context.Context, userID int64) (*Profile, error) {
	thunk := l.loader.Load(ctx, userID)
	return thunk()
}

// LoadAll resolves ids in order, dropping users that no longer exist.
// Any other lookup error aborts the whole call.
func (l *ProfileLoader) LoadAll(ctx context.Context, userIDs []int64) ([]*Profile, error) {
	thunks := make([]dataloader.Thunk[*Profile], len(userIDs))
	for i, id := range userIDs {
		thunks[i] = l.loader.Load(ctx, id)
	}

	out := make([]*Profile, 0, len(userIDs))
	for _, thunk := range thunks {
		p, err := thunk()
		if err == ErrProfileNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
