// Package imagestore keeps a project's image-storage capability fresh.
//
// The cached {baseUrl, token} pair lives in local storage under
// "<project>-imageStorage". A Hook refetches it when the token's se
// parameter is reached and, independently, every RefreshInterval.
package imagestore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/logging"
)

const RefreshInterval = 50 * time.Minute

var ErrMounted = errors.New("image storage hook already mounted")

// Fetcher obtains a fresh capability from the backend.
type Fetcher interface {
	Fetch(ctx context.Context) (models.ImageStorage, error)
}

// Store is the subset of local storage the hook needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CacheKey is the local-storage key of project's image storage.
func CacheKey(project string) string {
	return project + common.ImageStorageKeySuffix
}

type Option func(*Hook)

func WithClock(c clock.Clock) Option {
	return func(h *Hook) { h.clock = c }
}

func WithInterval(d time.Duration) Option {
	return func(h *Hook) { h.interval = d }
}

// WithOnChange registers fn, called with every new capability.
func WithOnChange(fn func(models.ImageStorage)) Option {
	return func(h *Hook) { h.onChange = fn }
}

type Hook struct {
	key      string
	fetcher  Fetcher
	store    Store
	log      logging.Logger
	clock    clock.Clock
	interval time.Duration
	onChange func(models.ImageStorage)

	mu      sync.Mutex
	current models.ImageStorage
	mounted bool
	ctx     context.Context
	cancel  context.CancelFunc
	timer   *clock.Timer
	ticker  *clock.Ticker
	wg      sync.WaitGroup
}

func New(project string, fetcher Fetcher, store Store, log logging.Logger, opts ...Option) *Hook {
	h := &Hook{
		key:      CacheKey(project),
		fetcher:  fetcher,
		store:    store,
		log:      log.With("module", "imagestore", "project", project),
		clock:    clock.New(),
		interval: RefreshInterval,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Current returns the capability in use.
func (h *Hook) Current() models.ImageStorage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Mount starts the hook. A cached capability whose expiry lies in the
// future is used as is and refetched at expiry; anything else is fetched
// right away. The periodic refresh starts in both cases, so a failed
// initial fetch is reported but the hook stays mounted.
func (h *Hook) Mount(ctx context.Context) error {
	h.mu.Lock()
	if h.mounted {
		h.mu.Unlock()
		return ErrMounted
	}
	h.mounted = true
	h.ctx, h.cancel = context.WithCancel(ctx)
	h.ticker = h.clock.Ticker(h.interval)
	ticker, hctx := h.ticker, h.ctx
	h.wg.Add(1)
	h.mu.Unlock()

	go h.loop(hctx, ticker)

	if cached, expiry, ok := h.loadCache(hctx); ok && expiry.After(h.clock.Now()) {
		h.log.Debug(hctx, "using cached image storage", "expiry", expiry)
		h.apply(cached)
		h.schedule(expiry)
		return nil
	}

	return h.refresh(hctx)
}

// Unmount stops the one-shot timer and the periodic refresh and waits for
// a running refresh to return.
func (h *Hook) Unmount() {
	h.mu.Lock()
	if !h.mounted {
		h.mu.Unlock()
		return
	}
	h.mounted = false
	h.cancel()
	if h.timer != nil && h.timer.Stop() {
		h.wg.Done()
	}
	h.timer = nil
	h.ticker.Stop()
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *Hook) loop(ctx context.Context, ticker *clock.Ticker) {
	defer h.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = h.refresh(ctx)
		}
	}
}

func (h *Hook) loadCache(ctx context.Context) (models.ImageStorage, time.Time, bool) {
	data, err := h.store.Get(ctx, h.key)
	if err != nil || len(data) == 0 {
		return models.ImageStorage{}, time.Time{}, false
	}
	var s models.ImageStorage
	if err := json.Unmarshal(data, &s); err != nil {
		h.log.Warn(ctx, "bad image storage cache entry", "err", err)
		return models.ImageStorage{}, time.Time{}, false
	}
	expiry, err := s.Expiry()
	if err != nil {
		return models.ImageStorage{}, time.Time{}, false
	}
	return s, expiry, true
}

func (h *Hook) refresh(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s, err := h.fetcher.Fetch(ctx)
	if err != nil {
		h.log.Warn(ctx, "image storage refresh failed", "err", err)
		return err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := h.store.Set(ctx, h.key, data); err != nil {
			h.log.Warn(ctx, "image storage cache write failed", "err", err)
		}
	}

	h.apply(s)

	if expiry, err := s.Expiry(); err == nil {
		h.schedule(expiry)
	}
	h.log.Debug(ctx, "image storage refreshed")
	return nil
}

func (h *Hook) apply(s models.ImageStorage) {
	h.mu.Lock()
	h.current = s
	fn := h.onChange
	h.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// schedule replaces the one-shot timer with one firing at expiry.
func (h *Hook) schedule(expiry time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.mounted {
		return
	}
	if h.timer != nil && h.timer.Stop() {
		h.wg.Done()
	}
	h.timer = nil

	d := expiry.Sub(h.clock.Now())
	if d <= 0 {
		return
	}

	ctx := h.ctx
	h.wg.Add(1)
	h.timer = h.clock.AfterFunc(d, func() {
		defer h.wg.Done()
		_ = h.refresh(ctx)
	})
}
