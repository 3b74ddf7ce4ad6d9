// internal/content/cached.go
//
// Read-through cache in front of any Store.
//
// Context
// -------
// The resolver and URL builder hit the store on every page view, usually for
// the same handful of popular recipes.  CachedStore keeps recent positive
// lookups in a TTL LRU and collapses concurrent identical reads with
// singleflight.
//
// Workflow
// --------
//  1. Cache hit    → copy of the cached row.
//  2. Cache miss   → one inner call per key, shared by concurrent callers.
//  3. Found row    → cached.  ErrNotFound and failures are never cached, so a
//     translation created elsewhere becomes visible on the next lookup.
//  4. Insert / Update → affected keys dropped after the inner write.
//
// Notes
// -----
// • Rows are stored by value; callers get their own copy.
// • A shared load runs detached from any one caller's context, bounded by
//   loadTimeout.  Each caller still gives up on its own deadline.
// • Every write bumps gen.  A load that began before the write finishes
//   without caching its row.
package content

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/mise/internal/cache"
	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/metrics"
)

// CachedStore wraps a Store.  Safe for concurrent use.
type CachedStore struct {
	inner Store
	canon *cache.LRU[string, CanonicalContent]
	trans *cache.LRU[string, Translation]
	group singleflight.Group

	mu  sync.Mutex // orders cache fills against write invalidation
	gen uint64
}

// loadTimeout bounds one shared inner read.
const loadTimeout = 5 * time.Second

var _ Store = (*CachedStore)(nil)

// NewCachedStore returns a cache holding up to size entries per record kind.
// ttl <= 0 keeps entries until evicted.
func NewCachedStore(inner Store, size int, ttl time.Duration) *CachedStore {
	if size < 1 {
		size = 1
	}
	return &CachedStore{
		inner: inner,
		canon: cache.New[string, CanonicalContent](size, ttl),
		trans: cache.New[string, Translation](size, ttl),
	}
}

/*──────────────────────── keys ────────────────────────*/

func canonIDKey(id int64) string         { return "id:" + strconv.FormatInt(id, 10) }
func canonHandleKey(handle string) string { return "h:" + handle }

func transIDKey(contentID int64, l locale.Locale) string {
	return "id:" + strconv.FormatInt(contentID, 10) + ":" + string(l)
}

func transHandleKey(handle string, l locale.Locale) string {
	return "h:" + string(l) + ":" + handle
}

/*──────────────────────── reads ───────────────────────*/

func (c *CachedStore) CanonicalContent(ctx context.Context, id int64) (*CanonicalContent, error) {
	return c.canonical(ctx, canonIDKey(id), func(ctx context.Context) (*CanonicalContent, error) {
		return c.inner.CanonicalContent(ctx, id)
	})
}

func (c *CachedStore) CanonicalContentByDefaultHandle(ctx context.Context, handle string) (*CanonicalContent, error) {
	return c.canonical(ctx, canonHandleKey(handle), func(ctx context.Context) (*CanonicalContent, error) {
		return c.inner.CanonicalContentByDefaultHandle(ctx, handle)
	})
}

func (c *CachedStore) Translation(ctx context.Context, contentID int64, l locale.Locale) (*Translation, error) {
	return c.translation(ctx, transIDKey(contentID, l), func(ctx context.Context) (*Translation, error) {
		return c.inner.Translation(ctx, contentID, l)
	})
}

func (c *CachedStore) TranslationByHandle(ctx context.Context, handle string, l locale.Locale) (*Translation, error) {
	return c.translation(ctx, transHandleKey(handle, l), func(ctx context.Context) (*Translation, error) {
		return c.inner.TranslationByHandle(ctx, handle, l)
	})
}

func (c *CachedStore) canonical(ctx context.Context, key string, load func(context.Context) (*CanonicalContent, error)) (*CanonicalContent, error) {
	if v, ok := c.canon.Get(key); ok {
		metrics.StoreCacheTotal.WithLabelValues("hit").Inc()
		return &v, nil
	}
	metrics.StoreCacheTotal.WithLabelValues("miss").Inc()

	v, err := c.shared(ctx, "c/"+key, func(lctx context.Context, gen uint64) (any, error) {
		row, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.fill(gen, func() {
			c.canon.Add(canonIDKey(row.ID), *row)
			c.canon.Add(canonHandleKey(row.DefaultHandle), *row)
		})
		return *row, nil
	})
	if err != nil {
		return nil, err
	}
	row := v.(CanonicalContent)
	return &row, nil
}

func (c *CachedStore) translation(ctx context.Context, key string, load func(context.Context) (*Translation, error)) (*Translation, error) {
	if v, ok := c.trans.Get(key); ok {
		metrics.StoreCacheTotal.WithLabelValues("hit").Inc()
		return &v, nil
	}
	metrics.StoreCacheTotal.WithLabelValues("miss").Inc()

	v, err := c.shared(ctx, "t/"+key, func(lctx context.Context, gen uint64) (any, error) {
		row, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.fill(gen, func() {
			c.trans.Add(transIDKey(row.ContentID, row.Locale), *row)
			c.trans.Add(transHandleKey(row.Handle, row.Locale), *row)
		})
		return *row, nil
	})
	if err != nil {
		return nil, err
	}
	row := v.(Translation)
	return &row, nil
}

// shared runs fn once per key across concurrent callers.  fn receives a
// context that outlives any single caller and the write generation observed
// before the inner read.
func (c *CachedStore) shared(ctx context.Context, key string, fn func(context.Context, uint64) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(lctx, gen)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
	}
}

// fill applies add unless a write happened since gen was read.
func (c *CachedStore) fill(gen uint64, add func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		add()
	}
}

// invalidate bumps the write generation, drops keys, and detaches in-flight
// loads for them so later readers start a fresh one.
func (c *CachedStore) invalidate(keys ...string) {
	c.mu.Lock()
	c.gen++
	for _, k := range keys {
		c.trans.Remove(k)
	}
	c.mu.Unlock()

	for _, k := range keys {
		c.group.Forget("t/" + k)
	}
}

/*──────────────────────── writes ──────────────────────*/

func (c *CachedStore) InsertTranslation(ctx context.Context, rec Translation) (*Translation, error) {
	out, err := c.inner.InsertTranslation(ctx, rec)
	c.invalidate(transIDKey(rec.ContentID, rec.Locale), transHandleKey(rec.Handle, rec.Locale))
	return out, err
}

// UpdateTranslation drops the row's previous handle key as well, so the old
// slug stops resolving through the cache.
func (c *CachedStore) UpdateTranslation(ctx context.Context, rec Translation) (*Translation, error) {
	idKey := transIDKey(rec.ContentID, rec.Locale)
	keys := []string{idKey, transHandleKey(rec.Handle, rec.Locale)}
	if old, ok := c.trans.Get(idKey); ok {
		keys = append(keys, transHandleKey(old.Handle, old.Locale))
	} else if old, err := c.inner.Translation(ctx, rec.ContentID, rec.Locale); err == nil {
		keys = append(keys, transHandleKey(old.Handle, old.Locale))
	}

	out, err := c.inner.UpdateTranslation(ctx, rec)
	if out != nil {
		keys = append(keys, transHandleKey(out.Handle, out.Locale))
	}
	c.invalidate(keys...)
	return out, err
}
